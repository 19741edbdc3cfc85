package main

import (
	"context"
	"flag"
	"html/template"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/torozsom/MnB-ReviewSite/internal/models"
	"github.com/torozsom/MnB-ReviewSite/internal/repository"
	"github.com/torozsom/MnB-ReviewSite/internal/reviews"

	"github.com/alexedwards/scs/mongodbstore"
	"github.com/alexedwards/scs/v2"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type application struct {
	infoLog       *log.Logger
	errorLog      *log.Logger
	session       *scs.SessionManager
	templateCache map[string]*template.Template
	db            *models.MongoDB
	reviews       *reviews.Service
	users         *repository.UserRepository
}

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Fatal("Error loading .env file")
	}
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		log.Fatal("MONGO_URI environment variable not found")
	}
	dbName := os.Getenv("MONGO_DB")
	if dbName == "" {
		dbName = "mnb"
	}

	addr := flag.String("addr", ":3000", "HTTP network address")
	flag.Parse()

	infoLog := log.New(os.Stdout, "INFO\t", log.Ldate|log.Ltime)
	errorLog := log.New(os.Stderr, "ERROR\t", log.Ldate|log.Ltime|log.Lshortfile)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		errorLog.Fatal(err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		errorLog.Fatal(err)
	}
	infoLog.Println("Connected to database!")
	db := client.Database(dbName)

	templateCache, err := newTemplateCache()
	if err != nil {
		errorLog.Fatal(err)
	}

	session := scs.New()
	session.Store = mongodbstore.New(db)
	session.Lifetime = sessionLifetime()
	session.Cookie.HttpOnly = true
	session.Cookie.SameSite = http.SameSiteLaxMode
	session.Cookie.Secure = os.Getenv("ENV") == "production"

	store := models.NewMongoDB(db)
	app := &application{
		infoLog:       infoLog,
		errorLog:      errorLog,
		session:       session,
		templateCache: templateCache,
		db:            store,
		reviews:       reviews.New(store, store, store, infoLog, errorLog),
		users:         &repository.UserRepository{Collection: store.Users},
	}

	srv := &http.Server{
		Addr:     *addr,
		ErrorLog: errorLog,
		Handler:  app.routes(),
	}

	infoLog.Printf("Starting MnB review site on %s", *addr)
	err = srv.ListenAndServe()
	errorLog.Fatal(err)
}

func sessionLifetime() time.Duration {
	raw := os.Getenv("SESSION_DURATION")
	seconds, err := strconv.Atoi(raw)
	if err != nil || seconds <= 0 {
		if raw != "" {
			log.Println("SESSION_DURATION is not a valid number, defaulting to 3600 seconds")
		}
		seconds = 3600
	}
	return time.Duration(seconds) * time.Second
}
