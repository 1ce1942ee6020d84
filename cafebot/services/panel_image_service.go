package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	lru "github.com/hashicorp/golang-lru"
	"github.com/netcafe-dev/cafebot/cafebot/game"
	"github.com/netcafe-dev/cafebot/cafebot/utils"
)

// PanelImageService renders a café record to a PNG through a headless
// browser. Rendered panels are cached per (player, tick): a record only
// changes when it is ticked or acted on, and both bump LastTick or the
// visible numbers, so serving the cached image between ticks is safe.
type PanelImageService struct {
	logger *slog.Logger
	cache  *lru.Cache
}

type panelData struct {
	Status      string
	StatusClass string
	Cash        string
	Bills       string
	Loan        string
	Profit      string
	PCs         int
	BrokenPCs   int
	Customers   int
	Capacity    int
	Internet    int
	Electricity int
	Tiers       int
	Stars       string
	Reputation  string
	Review      string
	Viruses     int
	Fire        int
	Police      int
	StaffTotal  int
}

const panelCacheSize = 256

func NewPanelImageService() *PanelImageService {
	cache, _ := lru.New(panelCacheSize)
	service := &PanelImageService{
		logger: slog.With(slog.String("service", "panel_image")),
		cache:  cache,
	}
	service.testChromedpAvailability()
	return service
}

func (s *PanelImageService) testChromedpAvailability() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	chromedpCtx, cancel := chromedp.NewContext(ctx)
	defer cancel()

	err := chromedp.Run(chromedpCtx, chromedp.Navigate("data:text/html,<html><body>test</body></html>"))
	if err != nil {
		s.logger.Error("chromedp not available - image generation will fail",
			slog.String("error", err.Error()))
	} else {
		s.logger.Info("chromedp is available and working")
	}
}

// Render produces the panel PNG for a record, reusing the cached render when
// the record has not ticked since.
func (s *PanelImageService) Render(ctx context.Context, playerID string, rec *game.Record) ([]byte, error) {
	cacheKey := fmt.Sprintf("%s:%d:%d:%d", playerID, rec.LastTick.UnixNano(), rec.Cash, len(rec.Customers))
	if cached, ok := s.cache.Get(cacheKey); ok {
		return cached.([]byte), nil
	}

	start := time.Now()

	htmlContent, err := s.generateHTML(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to generate HTML: %w", err)
	}

	chromedpCtx, cancel := chromedp.NewContext(ctx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancel()

	chromedpCtx, cancel = context.WithTimeout(chromedpCtx, 15*time.Second)
	defer cancel()

	var imageBytes []byte
	err = chromedp.Run(chromedpCtx,
		chromedp.Navigate("data:text/html,"+htmlContent),
		chromedp.WaitVisible("#panel-container", chromedp.ByID),
		chromedp.Sleep(200*time.Millisecond),
		chromedp.Screenshot("#panel-container", &imageBytes, chromedp.ByID),
	)
	if err != nil {
		s.logger.Error("Failed to generate image with chromedp",
			slog.String("error", err.Error()),
			slog.Duration("elapsed", time.Since(start)))
		return nil, fmt.Errorf("failed to generate image: %w", err)
	}

	s.cache.Add(cacheKey, imageBytes)

	s.logger.Info("Panel image generated",
		slog.String("player_id", playerID),
		slog.Int("image_size", len(imageBytes)),
		slog.Duration("elapsed", time.Since(start)))

	return imageBytes, nil
}

func (s *PanelImageService) generateHTML(rec *game.Record) (string, error) {
	status, statusClass := "CLOSED", "closed"
	if rec.IsOpen {
		status, statusClass = "OPEN", "open"
	}

	data := panelData{
		Status:      status,
		StatusClass: statusClass,
		Cash:        utils.FormatNumber(rec.Cash),
		Bills:       utils.FormatNumber(rec.Bills),
		Loan:        utils.FormatNumber(rec.Loan),
		Profit:      utils.FormatNumber(rec.ProfitLast24h()),
		PCs:         rec.PCs,
		BrokenPCs:   rec.BrokenPCs,
		Customers:   len(rec.Customers),
		Capacity:    rec.WorkingPCs(),
		Internet:    rec.InternetLevel,
		Electricity: rec.ElectricityLevel,
		Tiers:       game.TierCount,
		Stars:       utils.FormatStars(rec.Reputation),
		Reputation:  fmt.Sprintf("%.1f", rec.Reputation),
		Review:      rec.LatestReview,
		Viruses:     rec.Alerts.Viruses,
		Fire:        rec.Alerts.Fire,
		Police:      rec.Alerts.Police,
		StaffTotal:  rec.Staff.Total,
	}

	var buf bytes.Buffer
	if err := panelTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	htmlContent := strings.ReplaceAll(buf.String(), "#", "%23")
	htmlContent = strings.ReplaceAll(htmlContent, "\n", "")
	return htmlContent, nil
}

var panelTemplate = template.Must(template.New("panel").Parse(`<!DOCTYPE html>
<html>
<head>
<style>
  body { margin: 0; background: #1e1f22; font-family: 'Segoe UI', sans-serif; }
  #panel-container { width: 640px; padding: 24px; background: linear-gradient(135deg, #23272a, #2b2d31); color: #f2f3f5; }
  .status { font-size: 28px; font-weight: bold; }
  .status.open { color: #57f287; }
  .status.closed { color: #99aab5; }
  .grid { display: grid; grid-template-columns: 1fr 1fr; gap: 12px; margin-top: 16px; }
  .card { background: rgba(255,255,255,0.05); border-radius: 8px; padding: 12px; }
  .card h3 { margin: 0 0 8px 0; font-size: 13px; text-transform: uppercase; color: #b5bac1; }
  .card p { margin: 2px 0; font-size: 15px; }
  .review { margin-top: 16px; font-style: italic; color: #b5bac1; }
</style>
</head>
<body>
<div id="panel-container">
  <div class="status {{.StatusClass}}">🏪 Internet Café — {{.Status}}</div>
  <div class="grid">
    <div class="card"><h3>Finances</h3>
      <p>💰 Cash: {{.Cash}}</p><p>🧾 Bills: {{.Bills}}</p><p>🏦 Loan: {{.Loan}}</p><p>📈 Profit 24h: {{.Profit}}</p></div>
    <div class="card"><h3>Floor</h3>
      <p>🖥️ PCs: {{.PCs}} ({{.BrokenPCs}} broken)</p><p>🧑‍💻 Customers: {{.Customers}}/{{.Capacity}}</p><p>👥 Staff: {{.StaffTotal}}</p></div>
    <div class="card"><h3>Infrastructure</h3>
      <p>🌐 Internet tier {{.Internet}}/{{.Tiers}}</p><p>⚡ Electricity tier {{.Electricity}}/{{.Tiers}}</p></div>
    <div class="card"><h3>Alerts</h3>
      <p>🦠 Viruses: {{.Viruses}}</p><p>🔥 Fire: {{.Fire}}</p><p>🚓 Police: {{.Police}}</p></div>
  </div>
  <div class="review">{{.Stars}} {{.Reputation}} — "{{.Review}}"</div>
</div>
</body>
</html>`))
