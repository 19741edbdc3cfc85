package main

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateItemForm(t *testing.T) {
	thisYear := strconv.Itoa(time.Now().Year())
	nextYear := strconv.Itoa(time.Now().Year() + 1)

	tests := []struct {
		name     string
		title    string
		creator  string
		year     string
		desc     string
		wantYear int
		wantMsg  string
	}{
		{name: "valid", title: "Dune", creator: "Frank Herbert", year: "1965", desc: "sand", wantYear: 1965},
		{name: "missing description", title: "Dune", creator: "Frank Herbert", year: "1965", wantMsg: "All fields are required."},
		{name: "missing title", creator: "Frank Herbert", year: "1965", desc: "sand", wantMsg: "All fields are required."},
		{name: "year not a number", title: "Dune", creator: "x", year: "MCMLXV", desc: "sand", wantMsg: "Invalid release year."},
		{name: "year 1799", title: "Dune", creator: "x", year: "1799", desc: "sand", wantMsg: "Invalid release year."},
		{name: "year 1800", title: "Dune", creator: "x", year: "1800", desc: "sand", wantYear: 1800},
		{name: "current year", title: "Dune", creator: "x", year: thisYear, desc: "sand", wantYear: time.Now().Year()},
		{name: "next year", title: "Dune", creator: "x", year: nextYear, desc: "sand", wantMsg: "Invalid release year."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			year, msg := validateItemForm(tt.title, tt.creator, tt.year, tt.desc)
			assert.Equal(t, tt.wantMsg, msg)
			if tt.wantMsg == "" {
				assert.Equal(t, tt.wantYear, year)
			}
		})
	}
}

func uploadRequest(t *testing.T, filename, contentType string, payload []byte) *http.Request {
	t.Helper()
	body := new(bytes.Buffer)
	mw := multipart.NewWriter(body)
	if filename != "" {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, filename))
		h.Set("Content-Type", contentType)
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(payload)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	r := httptest.NewRequest(http.MethodPost, "/add", body)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	return r
}

func TestImageFromRequest(t *testing.T) {
	t.Run("valid image", func(t *testing.T) {
		r := uploadRequest(t, "cover.png", "image/png", []byte("fake png bytes"))
		img, uploaded, err := imageFromRequest(r)
		require.NoError(t, err)
		assert.True(t, uploaded)
		assert.Equal(t, "image/png", img.ContentType)
		assert.Equal(t, []byte("fake png bytes"), img.Data)
	})

	t.Run("no file", func(t *testing.T) {
		r := uploadRequest(t, "", "", nil)
		_, uploaded, err := imageFromRequest(r)
		require.NoError(t, err)
		assert.False(t, uploaded)
	})

	t.Run("non-image rejected", func(t *testing.T) {
		r := uploadRequest(t, "notes.txt", "text/plain", []byte("plain text"))
		_, _, err := imageFromRequest(r)
		assert.ErrorIs(t, err, errNotAnImage)
	})

	t.Run("oversize rejected", func(t *testing.T) {
		r := uploadRequest(t, "huge.png", "image/png", bytes.Repeat([]byte{0xff}, maxImageSize+1))
		_, _, err := imageFromRequest(r)
		assert.ErrorIs(t, err, errImageTooLarge)
	})
}
