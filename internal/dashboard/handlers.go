package dashboard

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/KaramelBytes/mbtiscope/internal/dataset"
	"github.com/KaramelBytes/mbtiscope/internal/ranking"
	"github.com/KaramelBytes/mbtiscope/internal/render"
	"github.com/go-chi/chi/v5"
)

type pageData struct {
	Types       []string
	Selected    string
	Source      string
	Rows        int
	Uploaded    bool
	Error       string
	Result      *ranking.Result
	Summary     string
	Title       string
	ChartURL    string
	ChartWidth  int
	ChartHeight int
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.ensure(w, r)
	ds, uploaded, err := s.datasetFor(sess)
	if err != nil {
		s.renderPage(w, http.StatusUnprocessableEntity, pageData{Error: err.Error()})
		return
	}
	s.renderRanking(w, http.StatusOK, ds, uploaded, r.URL.Query().Get("type"))
}

// renderRanking ranks ds by column (or its default column) and renders the page.
func (s *Server) renderRanking(w http.ResponseWriter, status int, ds *dataset.Dataset, uploaded bool, column string) {
	data := pageData{
		Types:       ds.Columns,
		Source:      ds.Name,
		Rows:        ds.Len(),
		Uploaded:    uploaded,
		ChartWidth:  s.opt.Chart.Width,
		ChartHeight: s.opt.Chart.Height,
	}
	if column == "" {
		column = ds.DefaultColumn()
	}
	data.Selected = column
	res, err := ranking.TopN(ds, column, s.opt.TopN)
	if err != nil {
		data.Error = err.Error()
		s.renderPage(w, http.StatusBadRequest, data)
		return
	}
	data.Result = res
	data.Summary = render.Summary(res)
	data.Title = render.Title(res)
	format, err := render.ParseFormat(s.opt.Chart.Format)
	if err != nil {
		format = render.FormatPNG
	}
	q := url.Values{"type": {column}}
	data.ChartURL = "/chart." + format + "?" + q.Encode()
	s.renderPage(w, status, data)
}

func (s *Server) renderPage(w http.ResponseWriter, status int, data pageData) {
	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, "index.html", data); err != nil {
		slog.Error("render page", "err", err)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.ensure(w, r)
	r.Body = http.MaxBytesReader(w, r.Body, s.opt.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.opt.MaxUploadBytes); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			s.uploadFailed(w, sess, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("File exceeds the %d MB upload limit", s.opt.MaxUploadBytes>>20))
			return
		}
		s.uploadFailed(w, sess, http.StatusBadRequest, "Invalid upload: "+err.Error())
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		s.uploadFailed(w, sess, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()
	if !dataset.Supported(header.Filename) {
		s.uploadFailed(w, sess, http.StatusBadRequest, "Only .csv, .tsv, .txt and .xlsx files are supported")
		return
	}

	ds, err := dataset.Load(file, header.Filename, s.opt.Load)
	if err != nil {
		slog.Warn("upload rejected", "file", header.Filename, "err", err)
		s.uploadFailed(w, sess, http.StatusBadRequest, err.Error())
		return
	}
	s.sessions.setUpload(sess, ds)
	for _, msg := range ds.Warnings {
		slog.Warn("upload", "file", ds.Name, "warning", msg)
	}
	slog.Info("dataset uploaded", "file", ds.Name, "rows", ds.Len(), "columns", len(ds.Columns))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// uploadFailed renders the error page. The session keeps whatever dataset it
// had, but no chart is drawn for the failed file.
func (s *Server) uploadFailed(w http.ResponseWriter, sess *session, status int, msg string) {
	data := pageData{Error: msg}
	if ds, uploaded, err := s.datasetFor(sess); err == nil {
		data.Types = ds.Columns
		data.Selected = ds.DefaultColumn()
		data.Source = ds.Name
		data.Rows = ds.Len()
		data.Uploaded = uploaded
	}
	s.renderPage(w, status, data)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.ensure(w, r)
	s.sessions.setUpload(sess, nil)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	format, err := render.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	res, status, err := s.rank(w, r)
	if err != nil {
		http.Error(w, err.Error(), status)
		return
	}
	opt := s.opt.Chart
	opt.Format = format
	var buf bytes.Buffer
	if err := render.Chart(&buf, res, opt); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, render.ErrNoBars) {
			status = http.StatusBadRequest
		}
		http.Error(w, err.Error(), status)
		return
	}
	w.Header().Set("Content-Type", render.ContentType(format))
	w.Header().Set("Cache-Control", "no-store")
	w.Write(buf.Bytes())
}

func (s *Server) handleTypes(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.ensure(w, r)
	ds, _, err := s.datasetFor(sess)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"dataset": ds.Name,
		"rows":    ds.Len(),
		"types":   ds.Columns,
		"default": ds.DefaultColumn(),
	})
}

func (s *Server) handleTop(w http.ResponseWriter, r *http.Request) {
	res, status, err := s.rank(w, r)
	if err != nil {
		writeJSON(w, status, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"result":  res,
		"summary": render.Summary(res),
	})
}

// rank resolves the session dataset and ranks it by the ?type and ?n query
// parameters.
func (s *Server) rank(w http.ResponseWriter, r *http.Request) (*ranking.Result, int, error) {
	sess := s.sessions.ensure(w, r)
	ds, _, err := s.datasetFor(sess)
	if err != nil {
		return nil, http.StatusUnprocessableEntity, err
	}
	q := r.URL.Query()
	column := q.Get("type")
	if column == "" {
		column = ds.DefaultColumn()
	}
	n := s.opt.TopN
	if v := q.Get("n"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			return nil, http.StatusBadRequest, fmt.Errorf("invalid n: %q", v)
		}
		n = parsed
	}
	res, err := ranking.TopN(ds, column, n)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, ranking.ErrMissingColumn) {
			status = http.StatusNotFound
		}
		return nil, status, err
	}
	return res, http.StatusOK, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode json", "err", err)
	}
}
