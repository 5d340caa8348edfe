package main

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/vitolink/regconsole/cmd/regconsole-web/api"
	"github.com/vitolink/regconsole/pkg/editor"
	"github.com/vitolink/regconsole/pkg/register"
)

// historyRows is how many exchanges the page lists.
const historyRows = 10

// pageData is rendered by templates/debug.html.
type pageData struct {
	Version string
	APIURL  string
	Catalog register.Catalog
	Editor  editor.Snapshot
	History []api.HistoryEntry
	Flash   string
}

// handleDebug serves the console page and applies its form.
func (s *Server) handleDebug(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.renderDebug(w, r)
	case http.MethodPost:
		s.submitDebug(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleSelect handles POST /debug/select: a click on a catalog entry.
func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	sess := s.sessions.get(w, r)

	index, err := strconv.Atoi(r.FormValue("index"))
	if err != nil {
		sess.setFlash("invalid catalog index")
	} else {
		s.record(sess, api.ActionRead, sess.editor.SelectIndex(r.Context(), index))
	}

	http.Redirect(w, r, "/debug", http.StatusSeeOther)
}

func (s *Server) renderDebug(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.get(w, r)

	history, err := s.store.ListEntries(sess.id, historyRows, 0)
	if err != nil {
		log.Printf("history: %v", err)
	}

	data := pageData{
		Version: s.config.Version,
		APIURL:  s.config.APIURL,
		Catalog: sess.editor.Catalog(),
		Editor:  sess.editor.Snapshot(),
		History: history,
		Flash:   sess.takeFlash(),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.page.ExecuteTemplate(w, "debug.html", data); err != nil {
		log.Printf("render: %v", err)
	}
}

// submitDebug applies the edited fields in the order the form fields
// depend on each other: address, size, then hex data if it changed or
// else unsigned data if it changed. The action runs only if all edits
// were accepted.
func (s *Server) submitDebug(w http.ResponseWriter, r *http.Request) {
	defer http.Redirect(w, r, "/debug", http.StatusSeeOther)

	sess := s.sessions.get(w, r)
	if err := r.ParseForm(); err != nil {
		sess.setFlash(err.Error())
		return
	}
	if err := applyForm(sess.editor, r.PostForm); err != nil {
		sess.setFlash(err.Error())
		return
	}

	ctx := r.Context()
	switch action := r.PostForm.Get("action"); action {
	case "refresh":
		s.record(sess, api.ActionRead, sess.editor.Refresh(ctx))
	case "set":
		s.record(sess, api.ActionWrite, sess.editor.Submit(ctx))
	case "apply", "":
	default:
		sess.setFlash("unknown action " + strconv.Quote(action))
	}
}

// formValues is the subset of url.Values used by applyForm.
type formValues interface {
	Get(key string) string
	Has(key string) bool
}

func applyForm(e *editor.Editor, form formValues) error {
	snap := e.Snapshot()

	if form.Has("address") && form.Get("address") != snap.Address {
		if err := e.EditAddress(form.Get("address")); err != nil {
			return err
		}
	}
	if form.Has("size") && form.Get("size") != strconv.Itoa(snap.Size) {
		if err := e.EditSize(form.Get("size")); err != nil {
			return err
		}
	}

	// Compare against the state before the edits above: a value typed
	// together with a new size still applies.
	switch {
	case form.Has("data") && form.Get("data") != snap.HexText():
		if form.Get("data") == "" {
			return nil
		}
		return e.EditHex(form.Get("data"))
	case form.Has("udata") && form.Get("udata") != snap.UnsignedText():
		if form.Get("udata") == "" {
			return nil
		}
		return e.EditUnsigned(form.Get("udata"))
	}
	return nil
}

// record stores the outcome of a read or write in the history. Errors that
// did not reach the backend are shown to the session instead. A write the
// backend confirmed is recorded even when a newer request replaced it in
// the editor.
func (s *Server) record(sess *session, action string, err error) {
	var superseded *editor.SupersededWriteError
	switch {
	case errors.As(err, &superseded):
		s.addHistory(&api.HistoryEntry{
			SessionID: sess.id,
			Action:    action,
			Address:   superseded.Address,
			Size:      len(superseded.Data) / 2,
			Data:      superseded.Data,
		})
		return
	case errors.Is(err, editor.ErrSuperseded):
		return
	case errors.Is(err, editor.ErrNoData), errors.Is(err, register.ErrNoSuchEntry):
		sess.setFlash(err.Error())
		return
	}

	snap := sess.editor.Snapshot()
	entry := api.HistoryEntry{
		SessionID: sess.id,
		Action:    action,
		Address:   snap.Address,
		Size:      snap.Size,
	}
	if err != nil {
		entry.Error = err.Error()
	} else {
		entry.Data = snap.HexText()
	}
	s.addHistory(&entry)
}

func (s *Server) addHistory(entry *api.HistoryEntry) {
	if err := s.store.AddEntry(entry); err != nil {
		log.Printf("history: %v", err)
	}
}
