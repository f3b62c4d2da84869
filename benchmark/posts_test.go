// Package benchmark measures an externally running Inkwell server over
// real HTTP. Start one with `inkwellctl server`, seed it, and point
// INKWELL_BENCH_URL at it (default http://localhost:8000). The post
// fetched is INKWELL_BENCH_POST as blog/post (default demo-blog/hello-world).
package benchmark

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"testing"
)

func benchTarget(b *testing.B) (string, string, string) {
	base := os.Getenv("INKWELL_BENCH_URL")
	if base == "" {
		base = "http://localhost:8000"
	}
	target := os.Getenv("INKWELL_BENCH_POST")
	if target == "" {
		target = "demo-blog/hello-world"
	}
	blog, post, ok := strings.Cut(target, "/")
	if !ok {
		b.Fatalf("INKWELL_BENCH_POST must be blog/post, got %q", target)
	}

	resp, err := http.Get(base + "/health")
	if err != nil || resp.StatusCode != http.StatusOK {
		b.Skipf("no server at %s, start one with `inkwellctl server`", base)
	}
	_ = resp.Body.Close()
	return base, blog, post
}

func BenchmarkGetPost(b *testing.B) {
	base, blog, post := benchTarget(b)

	b.Run("raw markdown", func(b *testing.B) {
		b.ReportAllocs()
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			r, _ := http.NewRequest("GET", fmt.Sprintf("%s/blogs/%s/posts/%s", base, blog, post), nil)
			resp, err := http.DefaultClient.Do(r)
			if err == nil {
				_ = resp.Body.Close()
			}
		}
	})

	b.Run("rendered with cache", func(b *testing.B) {
		b.ReportAllocs()
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			r, _ := http.NewRequest("GET", fmt.Sprintf("%s/blogs/%s/posts/%s?render=html", base, blog, post), nil)
			resp, err := http.DefaultClient.Do(r)
			if err == nil {
				_ = resp.Body.Close()
			}
		}
	})
}

func BenchmarkListPosts(b *testing.B) {
	base, blog, _ := benchTarget(b)

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		r, _ := http.NewRequest("GET", fmt.Sprintf("%s/blogs/%s/posts?status=published", base, blog), nil)
		resp, err := http.DefaultClient.Do(r)
		if err == nil {
			_ = resp.Body.Close()
		}
	}
}
