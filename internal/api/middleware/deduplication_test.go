package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shoplist-generator/internal/infrastructure/config"
)

func dedupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(Deduplication(&config.Config{DedupWindow: time.Second}))
	router.POST("/lists", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	router.GET("/lists", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return router
}

func dedupPost(router *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/lists", bytes.NewBufferString(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestDeduplicationRejectsRepeatedPost(t *testing.T) {
	router := dedupRouter(t)

	body := `{"recipeIds": ["dedup-repeat"]}`
	assert.Equal(t, http.StatusOK, dedupPost(router, body).Code)
	assert.Equal(t, http.StatusTooManyRequests, dedupPost(router, body).Code)

	// A different body is a different fingerprint.
	assert.Equal(t, http.StatusOK, dedupPost(router, `{"recipeIds": ["dedup-other"]}`).Code)
}

func TestDeduplicationIgnoresGet(t *testing.T) {
	router := dedupRouter(t)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/lists", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
	}
}

func TestDeduplicationConcurrentIdenticalPosts(t *testing.T) {
	router := dedupRouter(t)
	body := `{"recipeIds": ["dedup-concurrent"]}`

	const workers = 8
	codes := make([]int, workers)
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(i int) {
			defer wg.Done()
			codes[i] = dedupPost(router, body).Code
		}(i)
	}
	wg.Wait()

	passed := 0
	for _, code := range codes {
		if code == http.StatusOK {
			passed++
		}
	}
	// Exactly one of the racing identical requests may pass the window.
	assert.Equal(t, 1, passed)
}
