// tracking.go - privacy-conscious visitor tracking
package main

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/zach-portfolio/internal/storage"
)

// Visits older than this are deleted at start-up.
const visitorRetention = 12 * 30 * 24 * time.Hour

var untrackedPrefixes = []string{
	"/static/",
	"/images/",
	"/favicon",
	"/privacy",
	"/opord/",
}

type visitorTracker struct {
	db   *storage.DB
	salt string
	wg   sync.WaitGroup
}

func newVisitorTracker(db *storage.DB, salt string) *visitorTracker {
	log.Println("Privacy: Visitor tracking enabled with hashed IP addresses")
	return &visitorTracker{db: db, salt: salt}
}

func generateSalt() string {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		log.Fatal("Failed to generate hashing salt:", err)
	}
	return hex.EncodeToString(bytes)
}

// Hash IP address for privacy compliance (consistent per IP and salt)
func hashIP(ip, salt string) string {
	hash := sha256.New()
	hash.Write([]byte(ip + salt))
	return hex.EncodeToString(hash.Sum(nil))[:16]
}

func (t *visitorTracker) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if c.Request.Method != http.MethodGet || untracked(path) {
			c.Next()
			return
		}

		// Respect Do Not Track header
		if c.GetHeader("DNT") == "1" {
			c.Next()
			return
		}

		visit := storage.Visit{
			HashedIP:  hashIP(c.ClientIP(), t.salt),
			UserAgent: c.GetHeader("User-Agent"),
			Path:      path,
			Timestamp: time.Now(),
		}
		t.wg.Add(1)
		go func() {
			defer t.wg.Done()
			if err := t.db.RecordVisit(visit); err != nil {
				log.Printf("Error recording visitor: %v", err)
			}
		}()
		c.Next()
	}
}

func untracked(path string) bool {
	for _, prefix := range untrackedPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// cleanup removes visits past the retention window.
func (t *visitorTracker) cleanup(now time.Time) {
	removed, err := t.db.PurgeVisitsBefore(now.Add(-visitorRetention))
	if err != nil {
		log.Printf("Error cleaning up old visitor data: %v", err)
		return
	}
	if removed > 0 {
		log.Printf("Privacy cleanup: Removed %d visitor records older than 12 months", removed)
	}
}

// wait blocks until in-flight visit writes finish.
func (t *visitorTracker) wait() {
	t.wg.Wait()
}
