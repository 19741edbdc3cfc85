package main

import (
	"net/http"

	"github.com/bmizerany/pat"
)

func (app *application) routes() http.Handler {
	mux := pat.New()

	mux.Get("/movies", http.HandlerFunc(app.listMovies))
	mux.Get("/books", http.HandlerFunc(app.listBooks))

	mux.Get("/register", http.HandlerFunc(app.registerForm))
	mux.Post("/register", http.HandlerFunc(app.register))
	mux.Get("/login", http.HandlerFunc(app.loginForm))
	mux.Post("/login", http.HandlerFunc(app.login))
	mux.Get("/logout", http.HandlerFunc(app.logout))

	mux.Get("/add", app.requireAuth(http.HandlerFunc(app.addItemForm)))
	mux.Post("/add", app.requireAuth(http.HandlerFunc(app.saveItem)))
	mux.Get("/details/:id", http.HandlerFunc(app.itemDetails))
	mux.Get("/edit/:id", app.requireAuth(http.HandlerFunc(app.editItemForm)))
	mux.Post("/edit/:id", app.requireAuth(http.HandlerFunc(app.saveItem)))
	mux.Get("/delete/:id", app.requireAuth(http.HandlerFunc(app.deleteItem)))

	mux.Post("/comment/:id", app.requireAuth(http.HandlerFunc(app.saveComment)))
	mux.Post("/rate/:id", app.requireAuth(http.HandlerFunc(app.saveRating)))

	mux.Get("/image/:id", http.HandlerFunc(app.itemImage))
	mux.Get("/static/", http.StripPrefix("/static", http.FileServer(http.Dir("./ui/static/"))))

	mux.Get("/", http.HandlerFunc(app.home))

	return app.logRequest(app.recoverPanic(app.session.LoadAndSave(mux)))
}
