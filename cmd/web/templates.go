package main

import (
	"html/template"
	"path/filepath"

	"github.com/torozsom/MnB-ReviewSite/internal/models"
	"github.com/torozsom/MnB-ReviewSite/internal/reviews"
)

type TemplateData struct {
	CurrentYear     int
	IsAuthenticated bool
	Username        string
	Flash           string
	Items           []*models.Item
	Details         *reviews.ItemDetails
	Item            *models.Item
	SearchTerm      string
	ActiveKind      string
}

func newTemplateCache() (map[string]*template.Template, error) {
	cache := make(map[string]*template.Template)

	pages, err := filepath.Glob("./ui/html/*.page.tmpl")
	if err != nil {
		return nil, err
	}

	for _, page := range pages {
		name := filepath.Base(page)

		ts, err := template.ParseFiles("./ui/html/base.layout.tmpl")
		if err != nil {
			return nil, err
		}

		partials, err := filepath.Glob("./ui/html/*.partial.tmpl")
		if err != nil {
			return nil, err
		}

		if len(partials) > 0 {
			ts, err = ts.ParseGlob("./ui/html/*.partial.tmpl")
			if err != nil {
				return nil, err
			}
		}

		ts, err = ts.ParseFiles(page)
		if err != nil {
			return nil, err
		}

		cache[name] = ts
	}

	return cache, nil
}
