package router_test

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/drblury/jsonweaver/config"
	"github.com/drblury/jsonweaver/router"
)

func ExampleNew() {
	rt := router.New(
		router.WithLogger(slog.New(slog.NewJSONHandler(io.Discard, nil))),
		router.WithConfig(config.HTTP{
			Timeout: 2 * time.Second,
			CORS: config.CORS{
				Origins: []string{"https://example.com"},
				Methods: []string{http.MethodGet, http.MethodOptions},
				Headers: []string{"Content-Type"},
			},
			HideHeaders: []string{"Authorization"},
		}),
		router.WithMiddlewares(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("X-Stage", "prepend")
				next.ServeHTTP(w, r)
			})
		}),
	)
	rt.HandleJSONP("GET /greeting", func(*http.Request) (any, error) {
		return "hello", nil
	})

	req := httptest.NewRequest(http.MethodGet, "/greeting?callback=show", nil)
	req.Header.Set("Origin", "https://example.com")
	rec := httptest.NewRecorder()
	rt.ServeHTTP(rec, req)

	fmt.Println(rec.Header().Get("Access-Control-Allow-Origin"))
	fmt.Println(rec.Header().Get("X-Stage"))
	fmt.Println(rec.Header().Get("Content-Type"))
	fmt.Println(rec.Body.String())

	// Output:
	// https://example.com
	// prepend
	// application/javascript
	// show("hello");
}

func ExampleWithMiddlewareChain() {
	records := make([]string, 0, 4)
	middleware := func(label string) router.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				records = append(records, label+"-before")
				next.ServeHTTP(w, r)
				records = append(records, label+"-after")
			})
		}
	}

	rt := router.New(router.WithMiddlewareChain(middleware("first"), middleware("second")))
	rt.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "ok")
	})

	rec := httptest.NewRecorder()
	rt.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	fmt.Println(rec.Code)
	fmt.Println(records)

	// Output:
	// 200
	// [first-before second-before second-after first-after]
}
