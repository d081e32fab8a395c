// Copyright 2026 The SchoolFinder Authors
// SPDX-License-Identifier: Apache-2.0

package finder

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// maxCompareSchools is the number of schools the comparison view puts
// side by side; extra ids are dropped.
const maxCompareSchools = 3

// defaultRadiusKm matches the radius pre-selected on the search form.
const defaultRadiusKm = 5.0

// Server exposes the resolver, the search engine and the display
// transform over a JSON API. All handlers are stateless and read-only, so
// concurrent requests need no coordination.
type Server struct {
	repo     SchoolRepository
	resolver *Resolver
	engine   *Engine
}

// NewServer creates a Server over the given repository.
func NewServer(repo SchoolRepository) *Server {
	return &Server{
		repo:     repo,
		resolver: NewResolver(repo),
		engine:   NewEngine(repo),
	}
}

// Router builds the gin engine with all API routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.Default()

	r.GET("/api/levels", s.listLevels)
	r.GET("/api/search", s.searchSchools)
	r.GET("/api/schools/:id", s.getSchool)
	r.GET("/api/compare", s.compareSchools)

	return r
}

// Run starts the HTTP server on the given address.
func (s *Server) Run(addr string) error {
	return s.Router().Run(addr)
}

func (s *Server) listLevels(ctx *gin.Context) {
	levels, err := s.repo.GetDistinctLevels()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	if levels == nil {
		levels = []string{}
	}

	ctx.JSON(http.StatusOK, gin.H{"levels": levels})
}

// filtersFromQuery builds the filter set from query parameters. The flag
// parameters carry the literal "Y" when checked, matching the search form.
func filtersFromQuery(ctx *gin.Context) FilterCriteria {
	return FilterCriteria{
		Level:                ctx.Query("level"),
		HasPreschool:         ctx.Query("has_preschool") == "Y",
		HasIntensiveEnglish:  ctx.Query("has_intensive_english") == "Y",
		HasOpportunityClass:  ctx.Query("has_opportunity_class") == "Y",
		HasDistanceEducation: ctx.Query("has_distance_education") == "Y",
		NotSelective:         ctx.Query("not_selective") == "Y",
	}
}

func (s *Server) searchSchools(ctx *gin.Context) {
	suburb := strings.TrimSpace(ctx.Query("suburb"))
	postcode := strings.TrimSpace(ctx.Query("postcode"))

	if suburb == "" && postcode == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "please enter a suburb or postcode"})

		return
	}

	radiusKm := defaultRadiusKm

	if raw := ctx.Query("radius"); raw != "" {
		var err error

		radiusKm, err = strconv.ParseFloat(raw, 64)
		if err != nil || radiusKm < 0 {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid radius %q", raw)})

			return
		}
	}

	limit := DefaultLimit

	if raw := ctx.Query("limit"); raw != "" {
		var err error

		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid limit %q", raw)})

			return
		}
	}

	center, err := s.resolver.Resolve(suburb, postcode)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	if center == nil {
		ctx.JSON(http.StatusNotFound, gin.H{
			"error": fmt.Sprintf("could not find location for %s", strings.TrimSpace(suburb+" "+postcode)),
		})

		return
	}

	results, err := s.engine.Search(*center, radiusKm, filtersFromQuery(ctx), limit)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"center":  center,
		"count":   len(results),
		"schools": results,
	})
}

func (s *Server) getSchool(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid school id"})

		return
	}

	school, err := s.repo.GetSchoolByID(id)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	if school == nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "school not found"})

		return
	}

	ctx.JSON(http.StatusOK, TransformForDisplay(school))
}

// parseIDList parses a comma-separated id list, dropping blank entries.
func parseIDList(raw string) ([]int, error) {
	var ids []int

	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		id, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid school id %q", part)
		}

		ids = append(ids, id)
	}

	return ids, nil
}

// parseDistanceList parses the optional comma-separated distance list.
// A malformed list degrades to absent rather than rejecting the request.
func parseDistanceList(raw string) []float64 {
	if raw == "" {
		return nil
	}

	var distances []float64

	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		d, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil
		}

		distances = append(distances, d)
	}

	if len(distances) > maxCompareSchools {
		distances = distances[:maxCompareSchools]
	}

	return distances
}

func (s *Server) compareSchools(ctx *gin.Context) {
	ids, err := parseIDList(ctx.Query("ids"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	if len(ids) == 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "please select schools to compare"})

		return
	}

	if len(ids) > maxCompareSchools {
		ids = ids[:maxCompareSchools]
	}

	schools, err := s.repo.GetSchoolsByIDs(ids)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	if len(schools) != len(ids) {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "one or more schools not found"})

		return
	}

	display := TransformForComparison(schools)
	distances := parseDistanceList(ctx.Query("distances"))

	for i := range display {
		if i < len(distances) {
			display[i].DistanceKm = &distances[i]
		}
	}

	ctx.JSON(http.StatusOK, gin.H{"schools": display})
}
