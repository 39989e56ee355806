package httpserver

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/and161185/gamehub/internal/convert"
	"github.com/and161185/gamehub/internal/errs"
	"github.com/and161185/gamehub/internal/model"
)

var guideMessages = messages{
	errs.ErrNotFound:  "guide not found",
	errs.ErrForbidden: "only the author may change this guide",
}

func (s *Server) listGuides(w http.ResponseWriter, r *http.Request) {
	gameID, err := queryID(r, "gameId")
	if err != nil {
		s.fail(w, r, err, nil)
		return
	}
	authorID, err := queryID(r, "authorId")
	if err != nil {
		s.fail(w, r, err, nil)
		return
	}
	list, err := s.guides.List(r.Context(), model.GuideFilter{GameID: gameID, AuthorID: authorID})
	if err != nil {
		s.fail(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, convert.ToGuideViews(list))
}

func (s *Server) getGuide(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(mux.Vars(r)["id"], errs.ErrNotFound)
	if err != nil {
		s.fail(w, r, err, guideMessages)
		return
	}
	g, err := s.guides.Get(r.Context(), id)
	if err != nil {
		s.fail(w, r, err, guideMessages)
		return
	}
	writeJSON(w, http.StatusOK, convert.ToGuideView(*g))
}

func (s *Server) createGuide(w http.ResponseWriter, r *http.Request) {
	c, _ := ClaimsFromCtx(r.Context())
	var req createGuideRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err, nil)
		return
	}
	g, err := s.guides.Create(r.Context(), c, model.NewGuide{
		Title:    req.Title,
		Content:  req.Content,
		GameID:   int64(req.GameID),
		GameName: req.GameName,
	})
	if err != nil {
		s.fail(w, r, err, messages{errs.ErrValidation: "missing fields: title, content and gameId are required"})
		return
	}
	writeJSON(w, http.StatusCreated, convert.ToGuideView(*g))
}

func (s *Server) updateGuide(w http.ResponseWriter, r *http.Request) {
	c, _ := ClaimsFromCtx(r.Context())
	id, err := pathID(mux.Vars(r)["id"], errs.ErrNotFound)
	if err != nil {
		s.fail(w, r, err, guideMessages)
		return
	}
	var req updateGuideRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err, nil)
		return
	}
	g, err := s.guides.Update(r.Context(), id, c, model.GuidePatch{Title: req.Title, Content: req.Content})
	if err != nil {
		s.fail(w, r, err, guideMessages)
		return
	}
	writeJSON(w, http.StatusOK, convert.ToGuideView(*g))
}

func (s *Server) deleteGuide(w http.ResponseWriter, r *http.Request) {
	c, _ := ClaimsFromCtx(r.Context())
	id, err := pathID(mux.Vars(r)["id"], errs.ErrNotFound)
	if err != nil {
		s.fail(w, r, err, guideMessages)
		return
	}
	if err := s.guides.Delete(r.Context(), id, c); err != nil {
		s.fail(w, r, err, guideMessages)
		return
	}
	writeJSON(w, http.StatusOK, convert.MessageView{Message: "guide deleted"})
}
