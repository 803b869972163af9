package server

import (
	"encoding/base64"
	"html/template"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/young-creators/studio/pkg/gallery"
)

// The viewer embeds artifact code via srcdoc so the document runs inside
// a sandboxed frame rather than as a first-class page on our origin.
const viewPage = `<!DOCTYPE html>
<html lang="he" dir="rtl">
<head>
<meta charset="UTF-8">
<title>{{.Title}}</title>
<style>html,body{margin:0;height:100%;overflow:hidden}iframe{width:100%;height:100%;border:0}</style>
</head>
<body>
<iframe srcdoc="{{.Code}}" sandbox="allow-scripts allow-same-origin" title="{{.Title}}"></iframe>
</body>
</html>
`

const notFoundPage = `<!DOCTYPE html>
<html lang="he" dir="rtl">
<head>
<meta charset="UTF-8">
<title>לא נמצא</title>
<style>
body{min-height:100vh;margin:0;display:flex;align-items:center;justify-content:center;
background:linear-gradient(135deg,#a855f7,#ec4899);font-family:'Segoe UI',Arial,sans-serif}
.card{background:#fff;border-radius:16px;padding:40px;text-align:center}
a{display:inline-block;margin-top:16px;padding:10px 24px;border-radius:24px;
background:linear-gradient(135deg,#a855f7,#ec4899);color:#fff;text-decoration:none}
</style>
</head>
<body>
<div class="card">
<h1>לא נמצא ארטיפקט</h1>
<p>הקישור לא תקין או שפג תוקפו</p>
<a href="/gallery">חזרה לגלריה</a>
</div>
</body>
</html>
`

var viewTemplate = template.Must(template.New("view").Parse(viewPage))

type viewData struct {
	Title string
	Code  string
}

func (s *Server) htmlViewArtifact(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	artifact, err := s.artifacts.Get(id)
	if err == gallery.ErrNotFound {
		s.htmlNotFound(w)
		return
	}
	if err != nil {
		log.WithError(err).WithField("id", id).Error("could not load artifact")
		s.htmlNotFound(w)
		return
	}

	s.renderView(w, viewData{Title: artifact.Title, Code: artifact.Code})
}

// htmlViewLegacy serves the pre-gallery sharing path where the whole
// document travels base64-encoded in the URL.
func (s *Server) htmlViewLegacy(w http.ResponseWriter, req *http.Request) {
	encoded := req.URL.Query().Get("code")
	if encoded == "" {
		s.htmlNotFound(w)
		return
	}

	// '+' in the base64 payload survives query parsing as a space.
	encoded = strings.ReplaceAll(encoded, " ", "+")

	code, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		s.htmlNotFound(w)
		return
	}

	s.renderView(w, viewData{Title: "יצירה מ-יוצרים צעירים", Code: string(code)})
}

func (s *Server) renderView(w http.ResponseWriter, data viewData) {
	w.Header().Set("Content-Type", "text/html;charset=UTF-8")
	if err := viewTemplate.Execute(w, data); err != nil {
		log.WithError(err).Error("could not render artifact view")
	}
}

func (s *Server) htmlNotFound(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html;charset=UTF-8")
	w.WriteHeader(http.StatusNotFound)
	if _, err := w.Write([]byte(notFoundPage)); err != nil {
		log.WithError(err).Error("could not write not-found page")
	}
}
