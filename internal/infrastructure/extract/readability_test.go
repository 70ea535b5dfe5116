package extract

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const articlePage = `<!DOCTYPE html>
<html><head><title>Rover finds ice</title></head>
<body>
<nav><a href="/">Home</a> <a href="/world">World</a></nav>
<article>
<h1>Rover finds ice</h1>
<p>The rover drilled into the crater floor on Tuesday and found a thick layer of water ice beneath the dust.
Mission scientists said the discovery changes how future crews could be supplied on the surface.</p>
<p>Samples will be analysed over the coming weeks to determine how old the deposit is and whether it
contains any trace of organic molecules that formed long before the planet lost its atmosphere.</p>
<p>The team expects to publish preliminary results before the end of the year, pending peer review.
Independent researchers cautioned that surface ice has been reported before and said only the drill cores
would settle how much water is actually accessible to the equipment that future missions would carry.</p>
<p>Engineers are  now planning a second drilling campaign a few hundred metres away from the first site,
where radar soundings suggest the layer is even thicker and lies closer to the surface of the crater.</p>
</article>
<footer>Copyright</footer>
</body></html>`

func TestReadabilityExtract(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(articlePage))
	}))
	defer server.Close()

	e := NewReadabilityExtractor(server.Client(), time.Second)

	text, err := e.Extract(context.Background(), server.URL+"/story")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if !strings.Contains(text, "thick layer of water ice") {
		t.Fatalf("expected article body, got %q", text)
	}
	if strings.Contains(text, "\n") {
		t.Fatalf("whitespace should be collapsed")
	}

	if _, err := e.Extract(context.Background(), server.URL+"/missing"); err == nil {
		t.Fatalf("expected status error")
	}
	if _, err := e.Extract(context.Background(), "article1"); err == nil {
		t.Fatalf("expected error for non-http link")
	}
}
