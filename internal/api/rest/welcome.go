package rest

import "net/http"

type welcomeResponse struct {
	Msg string `json:"msg"`
}

// GetWelcome greets API clients.
//
// Request:
//
//	GET /api
//
// Response:
//
//	HTTP/1.1 200 OK
//	Content-Type: application/json
//	{"msg": "Welcome to the Squarehouse api!"}
func (h *Handler) GetWelcome(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, welcomeResponse{Msg: "Welcome to the Squarehouse api!"})
}
