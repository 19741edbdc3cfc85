package main

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/torozsom/MnB-ReviewSite/internal/models"
	"github.com/torozsom/MnB-ReviewSite/internal/repository"
	"github.com/torozsom/MnB-ReviewSite/internal/reviews"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- LISTING HANDLERS ---

func (app *application) home(w http.ResponseWriter, r *http.Request) {
	app.listMovies(w, r)
}

func (app *application) listMovies(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("search")
	movies, err := app.db.SearchMovies(r.Context(), search)
	if err != nil {
		app.serverError(w, err)
		return
	}
	items := make([]*models.Item, 0, len(movies))
	for _, m := range movies {
		items = append(items, m.Item())
	}
	app.render(w, r, "index.page.tmpl", &TemplateData{
		Items:      items,
		SearchTerm: search,
		ActiveKind: "movies",
	})
}

func (app *application) listBooks(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("search")
	books, err := app.db.SearchBooks(r.Context(), search)
	if err != nil {
		app.serverError(w, err)
		return
	}
	items := make([]*models.Item, 0, len(books))
	for _, b := range books {
		items = append(items, b.Item())
	}
	app.render(w, r, "index.page.tmpl", &TemplateData{
		Items:      items,
		SearchTerm: search,
		ActiveKind: "books",
	})
}

func (app *application) itemDetails(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get(":id")
	username := app.session.GetString(r.Context(), "username")

	d, err := app.reviews.Details(r.Context(), id, username)
	if err != nil {
		if errors.Is(err, models.ErrNoRecord) {
			app.notFound(w)
			return
		}
		app.serverError(w, err)
		return
	}
	app.render(w, r, "details.page.tmpl", &TemplateData{Details: d, Item: d.Item})
}

func (app *application) itemImage(w http.ResponseWriter, r *http.Request) {
	item, err := app.reviews.Resolve(r.Context(), r.URL.Query().Get(":id"))
	if err != nil {
		if errors.Is(err, models.ErrNoRecord) {
			app.notFound(w)
			return
		}
		app.serverError(w, err)
		return
	}
	if !item.HasImage() {
		app.notFound(w)
		return
	}
	w.Header().Set("Content-Type", item.Image.ContentType)
	w.Write(item.Image.Data)
}

// --- ITEM MANAGEMENT HANDLERS ---

func (app *application) addItemForm(w http.ResponseWriter, r *http.Request) {
	app.render(w, r, "add.page.tmpl", nil)
}

func (app *application) editItemForm(w http.ResponseWriter, r *http.Request) {
	item, err := app.reviews.Resolve(r.Context(), r.URL.Query().Get(":id"))
	if err != nil {
		if errors.Is(err, models.ErrNoRecord) {
			app.notFound(w)
			return
		}
		app.serverError(w, err)
		return
	}
	app.render(w, r, "edit.page.tmpl", &TemplateData{Item: item})
}

// saveItem handles both /add and /edit/:id. The form's itemType field
// decides which collection the item goes into.
func (app *application) saveItem(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImageSize+1<<20)
	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		app.validationError(w, "Upload too large or malformed form.")
		return
	}

	id := r.URL.Query().Get(":id")
	itemType := r.PostForm.Get("itemType")
	title := r.PostForm.Get("title")
	creator := r.PostForm.Get("creator")
	description := r.PostForm.Get("description")

	year, msg := validateItemForm(title, creator, r.PostForm.Get("year"), description)
	if msg != "" {
		app.validationError(w, msg)
		return
	}

	image, uploaded, err := imageFromRequest(r)
	if err != nil {
		if errors.Is(err, errImageTooLarge) || errors.Is(err, errNotAnImage) {
			app.validationError(w, err.Error())
			return
		}
		app.serverError(w, err)
		return
	}

	var oid primitive.ObjectID
	if id != "" {
		oid, err = primitive.ObjectIDFromHex(id)
		if err != nil {
			app.notFound(w)
			return
		}
	}

	ctx := r.Context()
	var redirect string
	switch itemType {
	case "book":
		b := &models.Book{Title: title, Author: creator, ReleaseYear: year, Description: description, Image: image}
		if id == "" {
			err = app.db.InsertBook(ctx, b)
		} else {
			err = app.db.UpdateBook(ctx, oid, b, uploaded)
		}
		redirect = "/books"
	case "movie":
		m := &models.Movie{Title: title, Director: creator, ReleaseYear: year, Description: description, Image: image}
		if id == "" {
			err = app.db.InsertMovie(ctx, m)
		} else {
			err = app.db.UpdateMovie(ctx, oid, m, uploaded)
		}
		redirect = "/movies"
	default:
		app.validationError(w, "Unknown item type.")
		return
	}

	if err != nil {
		if errors.Is(err, models.ErrNoRecord) {
			app.notFound(w)
			return
		}
		app.serverError(w, err)
		return
	}

	app.session.Put(r.Context(), "flash", "Item saved successfully.")
	http.Redirect(w, r, redirect, http.StatusSeeOther)
}

func (app *application) deleteItem(w http.ResponseWriter, r *http.Request) {
	kind, err := app.reviews.Delete(r.Context(), r.URL.Query().Get(":id"))
	if err != nil {
		if errors.Is(err, models.ErrNoRecord) {
			app.notFound(w)
			return
		}
		app.serverError(w, err)
		return
	}
	app.session.Put(r.Context(), "flash", fmt.Sprintf("%s deleted.", kind))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// --- INTERACTION HANDLERS ---

func (app *application) saveComment(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get(":id")
	username := app.session.GetString(r.Context(), "username")

	err := app.reviews.AddComment(r.Context(), id, username, r.PostFormValue("text"))
	switch {
	case errors.Is(err, reviews.ErrEmptyComment), errors.Is(err, reviews.ErrMissingUsername):
		app.validationError(w, "All fields are required.")
	case errors.Is(err, models.ErrNoRecord):
		app.notFound(w)
	case err != nil:
		app.serverError(w, err)
	default:
		http.Redirect(w, r, "/details/"+id, http.StatusSeeOther)
	}
}

func (app *application) saveRating(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get(":id")
	username := app.session.GetString(r.Context(), "username")

	value, err := strconv.Atoi(r.PostFormValue("rating"))
	if err != nil {
		app.validationError(w, "Rating must be between 1 and 5.")
		return
	}

	_, err = app.reviews.SubmitRating(r.Context(), id, username, value)
	switch {
	case errors.Is(err, reviews.ErrInvalidRating):
		app.validationError(w, "Rating must be between 1 and 5.")
	case errors.Is(err, reviews.ErrMissingUsername):
		app.validationError(w, "All fields are required.")
	case errors.Is(err, models.ErrNoRecord):
		app.notFound(w)
	case err != nil:
		app.serverError(w, err)
	default:
		http.Redirect(w, r, "/details/"+id, http.StatusSeeOther)
	}
}

// --- AUTH HANDLERS ---

func (app *application) registerForm(w http.ResponseWriter, r *http.Request) {
	app.render(w, r, "register.page.tmpl", nil)
}

func (app *application) register(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	email := r.FormValue("email")
	password := r.FormValue("password")
	confirmPassword := r.FormValue("confirmPassword")

	switch {
	case username == "" || email == "" || password == "" || confirmPassword == "":
		app.validationError(w, "All fields are required.")
		return
	case password != confirmPassword:
		app.validationError(w, "Passwords do not match.")
		return
	case !emailRX.MatchString(email):
		app.validationError(w, "Invalid email format.")
		return
	}

	err := app.users.Insert(r.Context(), username, email, password)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateUser) {
			app.validationError(w, "Username or email already taken.")
			return
		}
		app.serverError(w, err)
		return
	}

	app.infoLog.Printf("user registered: %s", username)
	app.session.Put(r.Context(), "flash", "Registration successful! You can now log in.")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (app *application) loginForm(w http.ResponseWriter, r *http.Request) {
	app.render(w, r, "login.page.tmpl", nil)
}

func (app *application) login(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	password := r.FormValue("password")

	if username == "" || password == "" {
		app.validationError(w, "Username and password are required.")
		return
	}

	user, err := app.users.Authenticate(r.Context(), username, password)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidCredentials) {
			app.validationError(w, "Invalid username or password.")
			return
		}
		app.serverError(w, err)
		return
	}

	if err := app.session.RenewToken(r.Context()); err != nil {
		app.serverError(w, err)
		return
	}
	app.session.Put(r.Context(), "authenticatedUserID", user.ID.Hex())
	app.session.Put(r.Context(), "username", user.Username)
	app.session.Put(r.Context(), "email", user.Email)

	app.infoLog.Printf("user logged in: %s", user.Username)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (app *application) logout(w http.ResponseWriter, r *http.Request) {
	if err := app.session.Destroy(r.Context()); err != nil {
		app.serverError(w, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
