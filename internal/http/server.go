package http

import (
	"context"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"sync"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/education"
	"fintrack/internal/log"
	"fintrack/internal/middleware/ratelimit"
	"fintrack/internal/middleware/security"
	"fintrack/internal/middleware/trace"
	"fintrack/internal/records"
	"fintrack/internal/services"
	"fintrack/internal/session"
	appweb "fintrack/web"

	"github.com/shopspring/decimal"
)

// Deps are the collaborators the server needs.
type Deps struct {
	Sessions           *session.Manager
	Records            *services.RecordService
	Backend            records.Backend
	Library            *education.Library
	Currency           string
	RateLimitPerMinute int
	Logger             *log.Logger
}

type Server struct {
	http.Server
	templates *template.Template
	sessions  *session.Manager
	records   *services.RecordService
	backend   records.Backend
	library   *education.Library
	currency  string
	logger    *log.Logger

	rateLimiter      *ratelimit.Limiter
	securityDetector *security.Detector
	traceMiddleware  *trace.Middleware
	startedAt        time.Time

	shutdownOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run http.Server.
func NewServer(addr string, deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	currency := deps.Currency
	if !core.ValidCurrency(currency) {
		currency = core.DefaultCurrency
	}

	s := &Server{
		sessions:         deps.Sessions,
		records:          deps.Records,
		backend:          deps.Backend,
		library:          deps.Library,
		currency:         currency,
		logger:           logger.WithComponent(log.ComponentHTTP),
		securityDetector: security.NewDetector(logger),
		startedAt:        time.Now(),
	}
	s.rateLimiter = ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: deps.RateLimitPerMinute}, logger)
	s.traceMiddleware = trace.NewMiddleware(s.securityDetector.ExtractClientIP, logger)

	t, err := parseTemplates(currency)
	if err != nil {
		s.logger.Error("Failed parsing templates",
			log.FieldError, err,
			log.FieldComponent, log.ComponentTemplate,
			"error_type", log.ErrorTypeConfiguration)
	}
	s.templates = t

	root := http.NewServeMux()

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		root.Handle("GET /static/", security.StaticAssetMiddleware(time.Hour)(static))
	} else {
		s.logger.Warn("Failed to mount embedded static FS", log.FieldError, err)
	}

	root.HandleFunc("GET /healthz", s.handleHealth)
	root.HandleFunc("GET /readyz", s.handleReady)
	root.HandleFunc("GET /metrics", s.handleMetrics)

	app := http.NewServeMux()
	app.HandleFunc("GET /{$}", s.handleIndex)
	app.HandleFunc("GET /education", s.handleEducation)
	app.HandleFunc("GET /budget", s.handleBudgetPage)
	app.HandleFunc("POST /budget", s.handleBudgetSubmit)
	app.HandleFunc("GET /expenses", s.handleExpensesPage)
	app.HandleFunc("POST /expenses", s.handleExpenseSubmit)
	app.HandleFunc("GET /planning", s.handlePlanningPage)
	app.HandleFunc("POST /planning", s.handlePlanningSubmit)
	app.HandleFunc("GET /sip", s.handleSIPPage)
	app.HandleFunc("POST /sip", s.handleSIPSubmit)
	app.HandleFunc("GET /emi", s.handleEMIPage)
	app.HandleFunc("POST /emi", s.handleEMISubmit)
	app.HandleFunc("GET /investments", s.handleInvestmentsPage)
	app.HandleFunc("POST /investments", s.handleInvestmentSubmit)

	app.HandleFunc("POST /api/budget", s.handleAPIBudget)
	app.HandleFunc("POST /api/goal", s.handleAPIGoal)
	app.HandleFunc("POST /api/sip", s.handleAPISIP)
	app.HandleFunc("POST /api/emi", s.handleAPIEMI)
	app.HandleFunc("GET /api/expenses", s.handleAPIListExpenses)
	app.HandleFunc("POST /api/expenses", s.handleAPIAddExpense)
	app.HandleFunc("GET /api/expenses/summary", s.handleAPIExpenseSummary)
	app.HandleFunc("GET /api/investments", s.handleAPIListInvestments)
	app.HandleFunc("POST /api/investments", s.handleAPIAddInvestment)
	app.HandleFunc("GET /api/investments/summary", s.handleAPIInvestmentSummary)

	root.Handle("/", s.sessions.Middleware(app))

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	limit := s.rateLimiter.Middleware(s.securityDetector.ExtractClientIP, s.onRateLimit, http.MethodPost)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           s.traceMiddleware.Middleware(s.securityDetector.Middleware(headers.Middleware(limit(root)))),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

func parseTemplates(currency string) (*template.Template, error) {
	funcs := template.FuncMap{
		"money": func(d decimal.Decimal) string {
			return core.FormatMoney(d, currency)
		},
		"percent": func(fraction decimal.Decimal) string {
			return fraction.Mul(decimal.NewFromInt(100)).StringFixed(1) + "%"
		},
		"lower": strings.ToLower,
		// topic bodies come from embedded markdown rendered without raw HTML
		"topicHTML": func(t education.Topic) template.HTML {
			return template.HTML(t.HTML)
		},
	}
	return template.New("").Funcs(funcs).ParseFS(appweb.TemplatesFS, "templates/*.html")
}

func (s *Server) onRateLimit(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Retry-After", "60")
	if strings.HasPrefix(r.URL.Path, "/api/") {
		JSONError(http.StatusTooManyRequests, "rate limit exceeded, please try again later").Write(w)
		return
	}
	ErrorResponse(http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.").Write(w)
}

// Shutdown gracefully shuts down the server and cleanup routines
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// store returns the record store of the request's session.
func (s *Server) store(r *http.Request) (records.Store, bool) {
	sess, ok := session.FromContext(r.Context())
	if !ok || sess.Store == nil {
		s.logger.ErrorContext(r.Context(), "No session in request context", log.FieldPath, r.URL.Path)
		return nil, false
	}
	return sess.Store, true
}
