package handler

import (
	"strings"

	"github.com/erp/resolver/internal/application/resolver"
	"github.com/erp/resolver/internal/domain/ledger"
	"github.com/erp/resolver/internal/domain/matching"
	"github.com/erp/resolver/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// ResolverHandler exposes matching, aliases, payee normalization and checks
type ResolverHandler struct {
	BaseHandler
	svc *resolver.Service
}

// NewResolverHandler creates a new ResolverHandler
func NewResolverHandler(svc *resolver.Service) *ResolverHandler {
	return &ResolverHandler{svc: svc}
}

// RegisterRoutes registers the resolver routes
func (h *ResolverHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/match", h.Match)
	rg.POST("/resolve", h.Resolve)

	payees := rg.Group("/payees")
	payees.POST("/resolve", h.ResolvePayee)
	payees.POST("/consolidate", h.Consolidate)
	payees.POST("/clean", h.Clean)

	aliases := rg.Group("/aliases")
	aliases.GET("", h.ListAliases)
	aliases.POST("", h.AddAlias)
	aliases.GET("/resolve", h.ResolveAlias)
	aliases.DELETE("/:alias", h.RemoveAlias)

	rg.POST("/names/:entity", h.ImportNames)

	checks := rg.Group("/checks")
	checks.POST("", h.ImportChecks)
	checks.GET("/recent", h.RecentChecks)
	checks.GET("/quarters/:key", h.QuarterChecks)

	rg.DELETE("/cache", h.InvalidateCaches)
}

// Match handles POST /match
func (h *ResolverHandler) Match(c *gin.Context) {
	var req dto.MatchRequest
	if !h.bindJSON(c, &req) {
		return
	}
	candidates, originals := normalizeCandidates(req.Candidates)
	result := h.svc.Match(c.Request.Context(),
		normalizeText(req.Query),
		candidates,
		matching.ParseEntityType(req.EntityType))
	if result.Found {
		result.CanonicalName = originals[result.CanonicalName]
	}
	result.OriginalQuery = req.Query
	h.Success(c, result)
}

// Resolve handles POST /resolve
func (h *ResolverHandler) Resolve(c *gin.Context) {
	var req dto.ResolveRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.svc.Resolve(c.Request.Context(), normalizeText(req.Query), matching.ParseEntityType(req.EntityType))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	result.OriginalQuery = req.Query
	h.Success(c, result)
}

// ResolvePayee handles POST /payees/resolve
func (h *ResolverHandler) ResolvePayee(c *gin.Context) {
	var req dto.PayeeRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.svc.ResolvePayee(c.Request.Context(), normalizeText(req.Query))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	result.OriginalQuery = req.Query
	h.Success(c, result)
}

// Consolidate handles POST /payees/consolidate
func (h *ResolverHandler) Consolidate(c *gin.Context) {
	var req dto.NameRequest
	if !h.bindJSON(c, &req) {
		return
	}
	h.Success(c, h.svc.Consolidate(normalizeText(req.Name)))
}

// Clean handles POST /payees/clean
func (h *ResolverHandler) Clean(c *gin.Context) {
	var req dto.NameRequest
	if !h.bindJSON(c, &req) {
		return
	}
	name := normalizeText(req.Name)
	h.Success(c, dto.CleanResponse{Input: name, Name: h.svc.Clean(name)})
}

// ListAliases handles GET /aliases
func (h *ResolverHandler) ListAliases(c *gin.Context) {
	h.Success(c, h.svc.Aliases())
}

// AddAlias handles POST /aliases
func (h *ResolverHandler) AddAlias(c *gin.Context) {
	var req dto.AliasRequest
	if !h.bindJSON(c, &req) {
		return
	}
	aliasName, canonical := normalizeText(req.Alias), normalizeText(req.Canonical)
	if err := h.svc.AddAlias(c.Request.Context(), aliasName, canonical); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, h.svc.ExplainAlias(aliasName))
}

// ResolveAlias handles GET /aliases/resolve?name=
func (h *ResolverHandler) ResolveAlias(c *gin.Context) {
	name := normalizeText(c.Query("name"))
	if name == "" {
		h.BadRequest(c, "name is required")
		return
	}
	h.Success(c, h.svc.ExplainAlias(name))
}

// RemoveAlias handles DELETE /aliases/:alias
func (h *ResolverHandler) RemoveAlias(c *gin.Context) {
	if err := h.svc.RemoveAlias(c.Request.Context(), normalizeText(c.Param("alias"))); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ImportNames handles POST /names/:entity
func (h *ResolverHandler) ImportNames(c *gin.Context) {
	param := strings.ToLower(strings.TrimSpace(c.Param("entity")))
	entity := matching.ParseEntityType(param)
	if string(entity) != param {
		h.BadRequest(c, "unknown entity type")
		return
	}
	var req dto.ImportNamesRequest
	if !h.bindJSON(c, &req) {
		return
	}

	names := make([]string, len(req.Names))
	for i, n := range req.Names {
		names[i] = normalizeText(n)
	}
	n, err := h.svc.ImportNames(c.Request.Context(), entity, names)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, dto.ImportResponse{Entity: string(entity), Count: n})
}

// ImportChecks handles POST /checks
func (h *ResolverHandler) ImportChecks(c *gin.Context) {
	var req dto.ImportChecksRequest
	if !h.bindJSON(c, &req) {
		return
	}

	checks := make([]ledger.Check, len(req.Checks))
	for i, in := range req.Checks {
		checks[i] = in.ToDomain()
		checks[i].Payee = normalizeText(checks[i].Payee)
	}
	n, err := h.svc.ImportChecks(c.Request.Context(), checks)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, dto.ImportResponse{Count: n})
}

// RecentChecks handles GET /checks/recent?days=&payee=
func (h *ResolverHandler) RecentChecks(c *gin.Context) {
	var q dto.RecentChecksQuery
	if !h.bindQuery(c, &q) {
		return
	}
	if q.Days == 0 {
		q.Days = resolver.DefaultRecentDays
	}
	payee := normalizeText(q.Payee)

	var (
		checks []ledger.Check
		err    error
	)
	if payee != "" {
		checks, err = h.svc.ChecksForPayee(c.Request.Context(), payee, q.Days)
	} else {
		checks, err = h.svc.RecentChecks(c.Request.Context(), q.Days)
	}
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.ChecksResponse{Days: q.Days, Payee: payee, Count: len(checks), Checks: checks})
}

// QuarterChecks handles GET /checks/quarters/:key
func (h *ResolverHandler) QuarterChecks(c *gin.Context) {
	key := c.Param("key")
	checks, err := h.svc.QuarterChecks(c.Request.Context(), key)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.ChecksResponse{Quarter: key, Count: len(checks), Checks: checks})
}

// InvalidateCaches handles DELETE /cache
func (h *ResolverHandler) InvalidateCaches(c *gin.Context) {
	if err := h.svc.InvalidateCaches(c.Request.Context()); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
