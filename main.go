package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/zach-portfolio/internal/opord"
	"github.com/Zachkp/zach-portfolio/internal/storage"
)

const shutdownGrace = 10 * time.Second

type server struct {
	cfg     Config
	content *Content
	store   *opord.Store
	mailer  Mailer
	tracker *visitorTracker
	salt    string
}

func main() {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatal("Invalid configuration: ", err)
	}
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	db, err := storage.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatal("Failed to open database: ", err)
	}
	defer db.Close()

	content, err := loadContent(contentYAML)
	if err != nil {
		log.Fatal("Failed to load site content: ", err)
	}

	s := &server{
		cfg:     cfg,
		content: content,
		store:   newPersistentStore(db, cfg.StateKey),
		mailer:  NewMailService(cfg.SMTP),
		salt:    generateSalt(),
	}
	if cfg.TrackingEnabled {
		s.tracker = newVisitorTracker(db, s.salt)
		go s.tracker.cleanup(time.Now())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	httpServer := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: s.routes(),
	}
	log.Printf("Listening on :%s", cfg.Port)
	if err := s.serve(ctx, httpServer); err != nil {
		log.Printf("Server error: %v", err)
	}
}

// serve runs httpServer until ctx is cancelled, then drains open requests
// and pending visit writes.
func (s *server) serve(ctx context.Context, httpServer *http.Server) error {
	errChan := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	var listenErr error
	select {
	case listenErr = <-errChan:
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown: %v", err)
	}
	if s.tracker != nil {
		s.tracker.wait()
	}
	return listenErr
}

// newPersistentStore rehydrates the builder from the key/value slot and
// writes the whole state back after every change.
func newPersistentStore(db *storage.DB, key string) *opord.Store {
	saved, _, err := db.Load(key)
	if err != nil {
		log.Printf("Error loading saved OPORD state: %v", err)
	}
	return opord.NewStore(func(state opord.FormState) error {
		data, err := opord.ExportJSON(state)
		if err != nil {
			return err
		}
		return db.Save(key, data)
	}, saved)
}

func (s *server) routes() *gin.Engine {
	r := gin.Default()
	r.SetHTMLTemplate(loadTemplates())
	r.StaticFS("/static", http.FS(staticFiles()))

	if s.tracker != nil {
		r.Use(s.tracker.middleware())
	}

	// Home page route
	r.GET("/", func(c *gin.Context) {
		c.HTML(http.StatusOK, "index.html", gin.H{
			"site":     s.content,
			"projects": s.content.Projects,
		})
	})

	// Work experience content
	r.GET("/work-content", func(c *gin.Context) {
		c.HTML(http.StatusOK, "work-content.html", gin.H{
			"positions": s.content.Work,
			"skills":    s.content.Skills,
		})
	})

	// Education content
	r.GET("/education-content", func(c *gin.Context) {
		c.HTML(http.StatusOK, "education-content.html", gin.H{
			"schools": s.content.Education,
		})
	})

	r.GET("/privacy", func(c *gin.Context) {
		c.HTML(http.StatusOK, "privacy.html", gin.H{
			"title":    "Privacy Policy",
			"tracking": s.tracker != nil,
		})
	})

	s.setupContactRoutes(r)
	s.setupOpordRoutes(r)
	return r
}
