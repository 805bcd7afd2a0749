package api

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/nmercer/grantscout/internal/auth"
	"github.com/nmercer/grantscout/internal/browserbase"
	"github.com/nmercer/grantscout/internal/config"
	"github.com/nmercer/grantscout/internal/db"
	"github.com/nmercer/grantscout/internal/discovery"
	"github.com/nmercer/grantscout/internal/match"
	"github.com/nmercer/grantscout/internal/models"
	"github.com/nmercer/grantscout/internal/summarize"
	"github.com/nmercer/grantscout/internal/tracker"
)

type Server struct {
	Echo        *echo.Echo
	DB          *pgxpool.Pool
	Store       *db.Store
	AuthService *auth.Service
	Config      *config.Config

	Discovery   *discovery.Service
	Summarizer  *summarize.Summarizer
	Normalizer  *match.Normalizer
	Browserbase *browserbase.Client
	Tracker     *tracker.Tracker
	Outcomes    tracker.OutcomeSimulator
}

func NewServer(pool *pgxpool.Pool, cfg *config.Config) *Server {
	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	allowedOrigins := []string{"http://localhost:4200"}
	allowedOrigins = append(allowedOrigins, cfg.CORSOrigins...)
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	var searcher discovery.Searcher
	if cfg.PerplexityAPIKey != "" {
		searcher = discovery.NewPerplexityClient(cfg.PerplexityBaseURL, cfg.PerplexityAPIKey)
	}
	disc := discovery.NewService(searcher, cfg.Defaults.Discovery, cfg.MockDiscovery)

	gemini := summarize.NewGeminiClient(cfg.GeminiBaseURL, cfg.Defaults.Summarize.Model, cfg.GeminiAPIKey)
	gemini.Temperature = cfg.Defaults.Summarize.Temperature
	gemini.TopK = cfg.Defaults.Summarize.TopK
	gemini.TopP = cfg.Defaults.Summarize.TopP
	gemini.MaxOutputTokens = cfg.Defaults.Summarize.MaxOutputTokens

	summarizer := summarize.NewSummarizer(gemini)
	summarizer.BatchSize = cfg.Defaults.Summarize.BatchSize
	summarizer.Delay = cfg.BatchDelay()
	summarizer.MaxInputGrants = cfg.Defaults.Summarize.MaxInputGrants
	summarizer.MaxFieldLength = cfg.Defaults.Summarize.MaxFieldLength

	s := &Server{
		Echo:        e,
		DB:          pool,
		Store:       db.NewStore(pool),
		AuthService: auth.NewService(pool),
		Config:      cfg,
		Discovery:   disc,
		Summarizer:  summarizer,
		Normalizer:  match.NewNormalizer(),
		Browserbase: browserbase.NewClient(cfg.BrowserbaseURL),
		Tracker:     tracker.New(),
		Outcomes:    tracker.NewCoinFlipSimulator(time.Now().UnixNano()),
	}

	s.routes()
	return s
}

func (s *Server) routes() {
	s.Echo.GET("/health", s.handleHealth)

	api := s.Echo.Group("/api")
	api.POST("/grants/search", s.handleSearchGrants)
	api.POST("/grants/summarize", s.handleSummarizeGrants)
	api.POST("/matches/preview", s.handleMatchPreview)

	api.POST("/auth/signup", s.handleSignup)
	api.POST("/auth/login", s.handleLogin)

	protected := api.Group("")
	protected.Use(auth.Middleware)
	protected.GET("/organization", s.handleGetOrganization)
	protected.PUT("/organization", s.handleUpsertOrganization)
	protected.POST("/grants/pdf-link", s.handlePDFLink)
	protected.POST("/applications/:grantID/start", s.handleStartApplication)
	protected.GET("/applications", s.handleListApplications)
}

func (s *Server) Start(port string) error {
	return s.Echo.Start(":" + port)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func (s *Server) handleSearchGrants(c echo.Context) error {
	var req models.GrantSearchRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	// An empty organization falls back to the bundled default profile.
	if req.Organization.LegalName == "" {
		def := s.Config.DefaultSearchRequest()
		req.Organization = def.Organization
		if req.Filters == nil {
			req.Filters = def.Filters
		}
	}

	resp, err := s.Discovery.FindGrants(c.Request().Context(), req)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleSummarizeGrants(c echo.Context) error {
	var records []models.Grant
	if err := c.Bind(&records); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	results, err := s.Summarizer.Summarize(c.Request().Context(), records)
	if err == summarize.ErrMissingAPIKey {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"count":   len(results),
		"results": results,
	})
}

type matchPreviewRequest struct {
	Records []models.Grant `json:"records"`
	Query   string         `json:"query,omitempty"`
}

func (s *Server) handleMatchPreview(c echo.Context) error {
	var req matchPreviewRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	// Authenticated callers get their own funnel from the store; anonymous
	// callers (the CLI) fall back to the in-process tracker.
	alreadyApplied := s.Tracker.HasSucceeded
	if userID, ok := auth.UserIDFromRequest(c); ok && s.DB != nil {
		ids, err := s.Store.SucceededGrantIDs(c.Request().Context(), userID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
		alreadyApplied = func(id int64) bool { return ids[id] }
	}

	cards := s.Normalizer.NormalizeForDisplay(req.Records)
	cards = match.FilterVisible(cards, alreadyApplied, req.Query)

	return c.JSON(http.StatusOK, map[string]any{
		"count": len(cards),
		"cards": cards,
	})
}

func (s *Server) handleSignup(c echo.Context) error {
	var req auth.SignupRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	resp, err := s.AuthService.Signup(c.Request().Context(), req)
	if err != nil {
		if err == auth.ErrUserExists {
			return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, resp)
}

func (s *Server) handleLogin(c echo.Context) error {
	var req auth.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	resp, err := s.AuthService.Login(c.Request().Context(), req)
	if err != nil {
		if err == auth.ErrInvalidCreds {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleGetOrganization(c echo.Context) error {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
	}

	profile, err := s.Store.GetOrganizationProfile(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if profile == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "No organization profile"})
	}
	return c.JSON(http.StatusOK, profile)
}

func (s *Server) handleUpsertOrganization(c echo.Context) error {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
	}

	var profile models.OrganizationProfile
	if err := c.Bind(&profile); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if profile.LegalName == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "legal_name is required"})
	}
	profile.UserID = userID

	if err := s.Store.UpsertOrganizationProfile(c.Request().Context(), profile); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, profile)
}

type pdfLinkRequest struct {
	GrantURL string `json:"grant_url"`
}

func (s *Server) handlePDFLink(c echo.Context) error {
	var req pdfLinkRequest
	if err := c.Bind(&req); err != nil || req.GrantURL == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "grant_url is required"})
	}

	result, err := s.Browserbase.FetchPDFLink(c.Request().Context(), req.GrantURL)
	if err == browserbase.ErrNotConfigured {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
	}
	if err != nil {
		return c.JSON(http.StatusBadGateway, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, result)
}

type startApplicationRequest struct {
	GrantTitle string `json:"grant_title"`
	Funder     string `json:"funder"`
	Amount     string `json:"amount"`
	GrantURL   string `json:"grant_url"`
}

func (s *Server) handleStartApplication(c echo.Context) error {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
	}

	grantID, err := strconv.ParseInt(c.Param("grantID"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid grant id"})
	}

	var req startApplicationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if req.GrantTitle == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "grant_title is required"})
	}

	ctx := c.Request().Context()

	// Terminal outcomes are final; only non-terminal attempts may be redone.
	existing, err := s.Store.GetApplication(ctx, userID, grantID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if existing != nil && existing.Status.Terminal() {
		return c.JSON(http.StatusConflict, map[string]string{
			"error": "application already " + string(existing.Status),
		})
	}

	app := models.Application{
		GrantID:    grantID,
		GrantTitle: req.GrantTitle,
		Funder:     req.Funder,
		Amount:     req.Amount,
		Status:     models.StatusStarted,
		Timestamp:  time.Now().UTC(),
	}

	// A failed session capture does not block the attempt.
	if req.GrantURL != "" && s.Browserbase.Configured() {
		session, err := s.Browserbase.FetchPDFLink(ctx, req.GrantURL)
		if err != nil {
			log.Printf("[Applications] session capture failed for grant %d: %v", grantID, err)
		} else {
			app.SessionID = session.SessionID
			app.LiveViewURL = session.LiveViewURL
			app.PDFLink = session.PDFLink
			if session.PDFLink != "" {
				deadline, err := browserbase.ExtractDeadlineFromPDF(ctx, nil, session.PDFLink)
				if err != nil {
					log.Printf("[Applications] pdf deadline extraction failed for grant %d: %v", grantID, err)
				} else {
					app.PDFDeadline = deadline
				}
			}
		}
	}

	app.Status = s.Outcomes.SimulateOutcome(app)

	if err := s.Store.UpsertApplication(ctx, userID, app); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	s.Tracker.Upsert(app)
	if app.Status.Succeeded() {
		s.Tracker.PushMessage(userID, "Application submitted for "+app.GrantTitle)
	}

	return c.JSON(http.StatusCreated, app)
}

func (s *Server) handleListApplications(c echo.Context) error {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
	}

	apps, err := s.Store.ListApplications(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if apps == nil {
		apps = []models.Application{}
	}
	return c.JSON(http.StatusOK, map[string]any{
		"count":        len(apps),
		"applications": apps,
		"messages":     s.Tracker.DrainMessages(userID),
	})
}
