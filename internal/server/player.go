package server

import (
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/koustreak/CloudVault/internal/vault"
)

var playerTmpl = template.Must(template.New("player").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{.Name}}</title>
</head>
<body>
  <h1>{{.Glyph}} {{.Name}}</h1>
  <p>{{.SizeHuman}} · {{.UploadDate}}</p>
{{if eq .Kind "video"}}
  <video controls autoplay style="max-width:100%" src="{{.StreamingURL}}"></video>
{{else if eq .Kind "audio"}}
  <audio controls autoplay src="{{.StreamingURL}}"></audio>
{{else if eq .Kind "image"}}
  <img style="max-width:100%" src="{{.StreamingURL}}" alt="{{.Name}}">
{{else}}
  <p><a href="{{.StreamingURL}}">Download {{.Name}}</a></p>
{{end}}
</body>
</html>
`))

type playerView struct {
	fileView
	Glyph string
}

func (s *Server) handlePlayer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	url, rec, err := s.vault.StreamLink(r.Context(), id, s.presignTTL)
	if err != nil {
		s.writeError(w, err)
		return
	}

	view := playerView{
		fileView: viewOf(rec, url),
		Glyph:    vault.KindOf(rec.MimeType).Glyph(),
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := playerTmpl.Execute(w, view); err != nil {
		s.log.With().Err(err).Logger().Error("player render failed")
	}
}
