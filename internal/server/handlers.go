package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/nethalo/sqlclass/internal/buffer"
	"github.com/nethalo/sqlclass/internal/output"
	"github.com/rs/zerolog/log"
)

type classifyRequest struct {
	SQL string `json:"sql"`
}

type batchRequest struct {
	Statements []string `json:"statements"`
}

type batchResponse struct {
	Results []output.RecordJSON `json:"results"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleClassify classifies {"sql": "..."}.
func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	var req classifyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	rec := s.cache.GetOrClassify(req.SQL)
	writeJSONResponse(w, http.StatusOK, output.NewRecordJSON(req.SQL, rec))
}

// handleClassifyBatch classifies {"statements": ["...", ...]}, one record
// per statement in request order.
func (s *Server) handleClassifyBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.Statements) == 0 {
		writeErrorResponse(w, http.StatusBadRequest, "statements is required")
		return
	}

	resp := batchResponse{Results: make([]output.RecordJSON, 0, len(req.Statements))}
	for _, sql := range req.Statements {
		resp.Results = append(resp.Results, output.NewRecordJSON(sql, s.cache.GetOrClassify(sql)))
	}
	writeJSONResponse(w, http.StatusOK, resp)
}

// handleClassifyPacket classifies one raw MySQL client packet, header
// included. Commands other than COM_QUERY and COM_STMT_PREPARE come back
// as INVALID.
func (s *Server) handleClassifyPacket(w http.ResponseWriter, r *http.Request) {
	pkt, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeErrorResponse(w, http.StatusRequestEntityTooLarge, err.Error())
		return
	}

	buf, err := buffer.FromPacket(pkt)
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	defer buf.Release()

	rec := s.classifier.GetCachedOrClassify(buf)
	writeJSONResponse(w, http.StatusOK, output.NewRecordJSON(buf.SQL, rec))
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// writeJSONResponse writes data as JSON with the given status.
func writeJSONResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeErrorResponse writes an error response
func writeErrorResponse(w http.ResponseWriter, status int, message string) {
	writeJSONResponse(w, status, map[string]string{"error": message})
}
