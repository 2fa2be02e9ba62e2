package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gin-gonic/gin"

	"webmap/internal/config"
	"webmap/internal/render"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	return New(render.New(config.Default(), "en")).Router()
}

func do(t *testing.T, r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	w := do(t, newTestRouter(t), http.MethodGet, "/healthz", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}

func TestEmbed(t *testing.T) {
	w := do(t, newTestRouter(t), http.MethodGet, "/embed?id=abc123&width=&flag=home&flag=view-larger-link&locale=de", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}

	doc, err := goquery.NewDocumentFromReader(w.Body)
	if err != nil {
		t.Fatal(err)
	}
	iframe := doc.Find("iframe")
	if _, ok := iframe.Attr("width"); ok {
		t.Error("explicit empty width should omit the attribute")
	}
	src, _ := iframe.Attr("src")
	if !strings.Contains(src, "webmap=abc123") || !strings.Contains(src, "zoom=true") {
		t.Errorf("src = %q", src)
	}
	if got := doc.Find("small a").Text(); got != "Größere Karte anzeigen" {
		t.Errorf("label = %q", got)
	}
}

func TestEmbedValidation(t *testing.T) {
	w := do(t, newTestRouter(t), http.MethodGet, "/embed?theme="+strings.Repeat("x", 40), "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestTranslate(t *testing.T) {
	body := `{"id":"abc123","extent":"-10,20,10,40","flags":["zoom"]}`
	w := do(t, newTestRouter(t), http.MethodPost, "/translate", body)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp TranslateResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	wantQuery := "webmap=abc123&extent=-10%2C20%2C10%2C40&theme=light&zoom=true&scale=false" +
		"&disable_scroll=false&basemap_gallery=false&basemap_toggle=false&basemaps=false&description=false"
	if !strings.HasSuffix(resp.URL, "?"+wantQuery) {
		t.Errorf("URL = %q", resp.URL)
	}
	if resp.Shortcode != `[webmap id="abc123" extent="-10,20,10,40" zoom]` {
		t.Errorf("Shortcode = %q", resp.Shortcode)
	}
	if len(resp.Params) != 10 || resp.Params[0].Key != "webmap" {
		t.Errorf("Params = %+v", resp.Params)
	}
}

func TestTranslateBadJSON(t *testing.T) {
	w := do(t, newTestRouter(t), http.MethodPost, "/translate", `{"id":`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestRender(t *testing.T) {
	body := `{"content":"<p>[webmap id=\"a\" color=red]</p>[[webmap]]"}`
	w := do(t, newTestRouter(t), http.MethodPost, "/render", body)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp RenderResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Rendered != 1 {
		t.Errorf("Rendered = %d, want 1", resp.Rendered)
	}
	if !strings.HasPrefix(resp.Content, `<p><iframe class="webmap-widget-map"`) || !strings.HasSuffix(resp.Content, "[webmap]") {
		t.Errorf("Content = %s", resp.Content)
	}
}

func TestRenderRequiresContent(t *testing.T) {
	w := do(t, newTestRouter(t), http.MethodPost, "/render", `{"content":""}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestRenderContentLimitIsBytes(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    int
	}{
		{"ascii at limit", strings.Repeat("a", maxContentBytes), http.StatusOK},
		{"multibyte at limit", strings.Repeat("ä", maxContentBytes/2), http.StatusOK},
		{"multibyte over limit", strings.Repeat("ä", maxContentBytes/2+1), http.StatusRequestEntityTooLarge},
		{"body over limit", strings.Repeat("a", maxBodyBytes), http.StatusRequestEntityTooLarge},
	}
	r := newTestRouter(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, err := json.Marshal(RenderRequest{Content: tt.content})
			if err != nil {
				t.Fatal(err)
			}
			w := do(t, r, http.MethodPost, "/render", string(body))
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestListenAndServeShutdown(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := New(render.Renderer{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.ListenAndServe(ctx, "127.0.0.1:0") }()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("ListenAndServe() error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
