// Package server provides the HTTP REST API for the content engine.
package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/tapline/tapline/internal/db"
	"github.com/tapline/tapline/internal/server/middleware"
	"github.com/tapline/tapline/internal/types"
)

// handleGenerate runs the pipeline for one request. Accepted drafts return
// 200, rejected drafts return 422 with the first violation.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	venueID, err := middleware.GetVenueID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req types.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	response, err := s.generationService.Generate(r.Context(), venueID, &req)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	status := http.StatusOK
	if !response.Accepted {
		status = http.StatusUnprocessableEntity
	}
	s.jsonResponse(w, status, response)
}

// handleGenerateBatch runs up to ten requests concurrently and returns the
// outcomes in request order.
func (s *Server) handleGenerateBatch(w http.ResponseWriter, r *http.Request) {
	venueID, err := middleware.GetVenueID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req types.BatchGenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	results, err := s.generationService.GenerateBatch(r.Context(), venueID, req.Requests)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, types.BatchGenerateResponse{Results: results})
}

// handleListRuns lists the venue's recent runs, newest first.
// Supports ?post_type=, ?status= and ?limit= query parameters.
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	venueID, err := middleware.GetVenueID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	filters := db.RunFilters{
		PostType: r.URL.Query().Get("post_type"),
		Status:   r.URL.Query().Get("status"),
	}
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 1 || limit > 500 {
			s.errorResponse(w, http.StatusBadRequest, "Invalid limit parameter")
			return
		}
		filters.Limit = limit
	}

	runs, err := s.db.ListRuns(r.Context(), venueID, filters)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to list runs")
		return
	}
	if runs == nil {
		runs = []db.Run{}
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"runs": runs})
}

// handleGetRun returns one run with its stored post, if any. Runs belonging
// to other venues are reported as not found.
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	venueID, err := middleware.GetVenueID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	runID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid run ID")
		return
	}

	run, err := s.db.GetRun(r.Context(), runID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to get run")
		return
	}
	if run == nil || run.VenueID != venueID {
		s.errorResponse(w, http.StatusNotFound, "Run not found")
		return
	}

	response := map[string]any{"run": run}
	if run.Status == db.RunStatusAccepted {
		post, err := s.db.GetPostByRun(r.Context(), runID)
		if err != nil {
			s.errorResponse(w, http.StatusInternalServerError, "Failed to get post")
			return
		}
		if post != nil {
			response["post"] = post
		}
	}

	s.jsonResponse(w, http.StatusOK, response)
}
