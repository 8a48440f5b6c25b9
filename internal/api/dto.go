package api

import (
	"github.com/starford/gedreader/internal/gedcom"
	"github.com/starford/gedreader/internal/index"
	"github.com/starford/gedreader/internal/treeservice"
)

// CreateTreeRequest is the request body for importing a tree.
type CreateTreeRequest struct {
	Path    string `json:"path" example:"families/windsor.ged" validate:"required"`
	Content string `json:"content" example:"0 HEAD\n1 GEDC\n0 TRLR" validate:"required"`
}

// UpdateTreeRequest is the request body for replacing a tree.
type UpdateTreeRequest struct {
	Content string `json:"content" validate:"required"`
}

// TreeSummary is a tree list item (aliased from the domain layer).
type TreeSummary = treeservice.TreeSummary

// TreeDetail is a tree with its records (aliased from the domain layer).
type TreeDetail = treeservice.TreeDetail

// ParseResult is the response of POST /parse.
type ParseResult = treeservice.ParseResult

// TreeListResponse wraps tree listings.
type TreeListResponse struct {
	Trees []TreeSummary `json:"trees" validate:"required"`
	Total int           `json:"total" example:"3" validate:"required"`
}

// IndividualsResponse wraps the individuals of a tree.
type IndividualsResponse struct {
	Tree        string              `json:"tree"`
	Individuals []gedcom.Individual `json:"individuals"`
}

// FamiliesResponse wraps the families of a tree.
type FamiliesResponse struct {
	Tree     string          `json:"tree"`
	Families []gedcom.Family `json:"families"`
}

// RecordsResponse wraps source or other records of a tree.
type RecordsResponse struct {
	Tree    string                 `json:"tree"`
	Records []gedcom.GeneralRecord `json:"records"`
}

// RecordResponse is a single record of any kind.
type RecordResponse struct {
	Tree           string `json:"tree"`
	Kind           string `json:"kind" example:"individual"`
	ID             string `json:"id" example:"I1"`
	GivenName      string `json:"given_name,omitempty"`
	Surname        string `json:"surname,omitempty"`
	DisplayName    string `json:"display_name,omitempty"`
	HusbandSurname string `json:"husband_surname,omitempty"`
	WifeSurname    string `json:"wife_surname,omitempty"`
	Body           string `json:"body"`
}

func recordResponse(r *index.RecordRow) RecordResponse {
	return RecordResponse{
		Tree:           r.Path,
		Kind:           r.Kind,
		ID:             r.ID,
		GivenName:      r.GivenName,
		Surname:        r.Surname,
		DisplayName:    r.DisplayName,
		HusbandSurname: r.HusbandSurname,
		WifeSurname:    r.WifeSurname,
		Body:           r.Body,
	}
}

// SearchResult is a single search hit in the API response.
type SearchResult struct {
	Tree    string `json:"tree" example:"windsor.ged" validate:"required"`
	Kind    string `json:"kind" example:"individual" validate:"required"`
	ID      string `json:"id" example:"I1" validate:"required"`
	Title   string `json:"title" example:"Smith John" validate:"required"`
	Snippet string `json:"snippet" example:"...matched text..." validate:"required"`
}

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []SearchResult `json:"results" validate:"required"`
}

func searchResponse(hits []index.SearchResult) SearchResponse {
	out := make([]SearchResult, len(hits))
	for i, h := range hits {
		out[i] = SearchResult{Tree: h.Path, Kind: h.Kind, ID: h.ID, Title: h.Title, Snippet: h.Snippet}
	}
	return SearchResponse{Results: out}
}

// ParseErrorResponse is returned with 422 when content is rejected.
type ParseErrorResponse struct {
	Error  string `json:"error" validate:"required"`
	Kind   string `json:"kind" example:"malformed_header" validate:"required"`
	Offset int    `json:"offset"`
}
