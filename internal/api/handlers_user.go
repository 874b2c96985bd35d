package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"foodgram/internal/storage"
	"foodgram/internal/user"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email     string `json:"email"`
		Username  string `json:"username"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Password  string `json:"password"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	fields := map[string][]string{}
	for name, value := range map[string]string{
		"email":    req.Email,
		"username": req.Username,
		"password": req.Password,
	} {
		if value == "" {
			fields[name] = []string{"Это поле обязательно."}
		}
	}
	if len(fields) > 0 {
		sendFieldErrors(w, fields)
		return
	}

	hash, err := user.HashPassword(req.Password)
	if err != nil {
		s.serverError(w, err)
		return
	}

	u := &user.User{
		Email:        req.Email,
		Username:     req.Username,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: hash,
	}
	id, err := s.users.Create(r.Context(), u)
	if err != nil {
		if errors.Is(err, user.ErrExists) {
			sendError(w, "Пользователь с таким email или username уже существует.", http.StatusBadRequest)
			return
		}
		s.serverError(w, err)
		return
	}
	u.ID = id

	payload, err := s.userPayload(r.Context(), u, nil)
	if err != nil {
		s.serverError(w, err)
		return
	}
	sendJSON(w, http.StatusCreated, payload)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	u, err := s.users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		s.serverError(w, err)
		return
	}
	if u == nil || !user.CheckPassword(u.PasswordHash, req.Password) {
		sendError(w, "Невозможно войти с предоставленными учетными данными.", http.StatusBadRequest)
		return
	}

	token, err := s.tokens.Issue(u.ID)
	if err != nil {
		s.serverError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, map[string]string{"auth_token": token})
}

// Tokens are self-contained, so logout is just an acknowledgment that lets
// the client drop its copy.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	p := parsePageParams(r)
	users, total, err := s.users.List(r.Context(), p.limit, p.offset())
	if err != nil {
		s.serverError(w, err)
		return
	}

	viewer := currentUser(r)
	results := make([]userPayload, 0, len(users))
	for i := range users {
		payload, err := s.userPayload(r.Context(), &users[i], viewer)
		if err != nil {
			s.serverError(w, err)
			return
		}
		results = append(results, payload)
	}
	sendJSON(w, http.StatusOK, paginate(r, p, total, results))
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		sendError(w, "Страница не найдена.", http.StatusNotFound)
		return
	}

	u, err := s.users.Get(r.Context(), id)
	if err != nil {
		s.serverError(w, err)
		return
	}
	if u == nil {
		sendError(w, "Страница не найдена.", http.StatusNotFound)
		return
	}

	payload, err := s.userPayload(r.Context(), u, currentUser(r))
	if err != nil {
		s.serverError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, payload)
}

func (s *Server) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	payload, err := s.userPayload(r.Context(), currentUser(r), nil)
	if err != nil {
		s.serverError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, payload)
}

func (s *Server) handleSetAvatar(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Avatar string `json:"avatar"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Avatar == "" {
		sendFieldErrors(w, map[string][]string{"avatar": {"Это поле обязательно."}})
		return
	}

	u := currentUser(r)

	relPath, err := s.media.SaveDataURI(req.Avatar)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidDataURI) {
			sendFieldErrors(w, map[string][]string{"avatar": {"Некорректное изображение."}})
			return
		}
		s.serverError(w, err)
		return
	}

	// The old file is orphaned once the row points elsewhere.
	if err := s.media.Remove(u.Avatar); err != nil {
		s.serverError(w, err)
		return
	}
	if err := s.users.SetAvatar(r.Context(), u.ID, relPath); err != nil {
		s.serverError(w, err)
		return
	}

	sendJSON(w, http.StatusOK, map[string]*string{"avatar": s.mediaURL(relPath)})
}

func (s *Server) handleDeleteAvatar(w http.ResponseWriter, r *http.Request) {
	u := currentUser(r)
	if u.Avatar == "" {
		sendError(w, "Аватар отсутствует.", http.StatusNotFound)
		return
	}

	if err := s.media.Remove(u.Avatar); err != nil {
		s.serverError(w, err)
		return
	}
	if err := s.users.SetAvatar(r.Context(), u.ID, ""); err != nil {
		s.serverError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	viewer := currentUser(r)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		sendError(w, "Страница не найдена.", http.StatusNotFound)
		return
	}

	followed, err := s.users.Get(r.Context(), id)
	if err != nil {
		s.serverError(w, err)
		return
	}
	if followed == nil {
		sendError(w, "Страница не найдена.", http.StatusNotFound)
		return
	}

	if err := s.users.Follow(r.Context(), viewer.ID, id); err != nil {
		switch {
		case errors.Is(err, user.ErrSelfFollow):
			sendError(w, "Нельзя подписаться на самого себя.", http.StatusBadRequest)
		case errors.Is(err, user.ErrAlreadyFollowing):
			sendError(w, "Вы уже подписаны на этого пользователя.", http.StatusBadRequest)
		default:
			s.serverError(w, err)
		}
		return
	}

	payload, err := s.followPayload(r.Context(), followed, viewer, r)
	if err != nil {
		s.serverError(w, err)
		return
	}
	sendJSON(w, http.StatusCreated, payload)
}

func (s *Server) handleUnsubscribe(w http.ResponseWriter, r *http.Request) {
	viewer := currentUser(r)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		sendError(w, "Страница не найдена.", http.StatusNotFound)
		return
	}

	followed, err := s.users.Get(r.Context(), id)
	if err != nil {
		s.serverError(w, err)
		return
	}
	if followed == nil {
		sendError(w, "Страница не найдена.", http.StatusNotFound)
		return
	}

	if err := s.users.Unfollow(r.Context(), viewer.ID, id); err != nil {
		if errors.Is(err, user.ErrNotFollowing) {
			sendError(w, "Вы не подписаны на этого пользователя.", http.StatusBadRequest)
			return
		}
		s.serverError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListSubscriptions(w http.ResponseWriter, r *http.Request) {
	viewer := currentUser(r)
	p := parsePageParams(r)

	followed, total, err := s.users.Subscriptions(r.Context(), viewer.ID, p.limit, p.offset())
	if err != nil {
		s.serverError(w, err)
		return
	}

	results := make([]followPayload, 0, len(followed))
	for i := range followed {
		payload, err := s.followPayload(r.Context(), &followed[i], viewer, r)
		if err != nil {
			s.serverError(w, err)
			return
		}
		// Everything on the page is followed by definition.
		payload.IsSubscribed = true
		results = append(results, payload)
	}
	sendJSON(w, http.StatusOK, paginate(r, p, total, results))
}
