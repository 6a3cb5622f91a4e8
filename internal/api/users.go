package api

import (
	"bufio"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"strconv"

	"medsales/m/internal/service"
)

const defaultLogLines = 200

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.ListUsers(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, users)
}

func (h *Handler) addUser(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	var req service.UserInput
	if err := decodeInput(r, &req); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	u, err := h.svc.AddUser(r.Context(), req)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, u)
}

// viewLogs returns the last lines of the application log file.
func (h *Handler) viewLogs(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	n := defaultLogLines
	if raw := r.URL.Query().Get("lines"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			respondError(w, http.StatusBadRequest, "lines must be a positive integer")
			return
		}
		n = v
	}

	lines, err := tailFile(h.logFile, n)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"file": h.logFile, "lines": lines})
}

// tailFile keeps the last n lines of path. A missing or unset file yields none.
func tailFile(path string, n int) ([]string, error) {
	lines := []string{}
	if path == "" {
		return lines, nil
	}
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return lines, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
		if len(lines) > n {
			lines = lines[1:]
		}
	}
	return lines, scanner.Err()
}
