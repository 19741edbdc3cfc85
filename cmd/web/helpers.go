package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/torozsom/MnB-ReviewSite/internal/models"
)

func (app *application) serverError(w http.ResponseWriter, err error) {
	app.errorLog.Output(2, err.Error())
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func (app *application) clientError(w http.ResponseWriter, status int) {
	http.Error(w, http.StatusText(status), status)
}

func (app *application) notFound(w http.ResponseWriter) {
	app.clientError(w, http.StatusNotFound)
}

// validationError sends the user-readable message with a 400.
func (app *application) validationError(w http.ResponseWriter, msg string) {
	http.Error(w, msg, http.StatusBadRequest)
}

func (app *application) isAuthenticated(r *http.Request) bool {
	return app.session.Exists(r.Context(), "authenticatedUserID")
}

func (app *application) addDefaultData(td *TemplateData, r *http.Request) *TemplateData {
	if td == nil {
		td = &TemplateData{}
	}
	td.CurrentYear = time.Now().Year()
	td.IsAuthenticated = app.isAuthenticated(r)
	td.Flash = app.session.PopString(r.Context(), "flash")

	if td.IsAuthenticated {
		td.Username = app.session.GetString(r.Context(), "username")
	}
	return td
}

func (app *application) render(w http.ResponseWriter, r *http.Request, page string, data *TemplateData) {
	ts, ok := app.templateCache[page]
	if !ok {
		app.serverError(w, fmt.Errorf("the template %s does not exist", page))
		return
	}

	buf := new(bytes.Buffer)
	err := ts.ExecuteTemplate(buf, "base", app.addDefaultData(data, r))
	if err != nil {
		app.serverError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

var emailRX = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// validateItemForm checks the shared add/edit form fields and returns the
// parsed release year, or a user-readable message on failure.
func validateItemForm(title, creator, yearStr, description string) (int, string) {
	if title == "" || creator == "" || yearStr == "" || description == "" {
		return 0, "All fields are required."
	}
	year, err := strconv.Atoi(yearStr)
	if err != nil || year < 1800 || year > time.Now().Year() {
		return 0, "Invalid release year."
	}
	return year, ""
}

const maxImageSize = 5 << 20 // 5MB, same cap the upload form advertises

var (
	errImageTooLarge = errors.New("image exceeds the 5MB limit")
	errNotAnImage    = errors.New("only images are allowed")
)

// imageFromRequest extracts an optional uploaded cover image from a
// multipart form. A missing file is not an error.
func imageFromRequest(r *http.Request) (models.Image, bool, error) {
	file, header, err := r.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return models.Image{}, false, nil
		}
		return models.Image{}, false, err
	}
	defer file.Close()

	if header.Size > maxImageSize {
		return models.Image{}, false, errImageTooLarge
	}
	data, err := io.ReadAll(io.LimitReader(file, maxImageSize+1))
	if err != nil {
		return models.Image{}, false, err
	}
	if len(data) > maxImageSize {
		return models.Image{}, false, errImageTooLarge
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	if !strings.HasPrefix(contentType, "image/") {
		return models.Image{}, false, errNotAnImage
	}

	return models.Image{Data: data, ContentType: contentType}, true, nil
}
