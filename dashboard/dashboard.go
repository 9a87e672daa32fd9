// Package dashboard holds the mock data shown by swipedash and simulates refreshing it from a backend.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"golang.org/x/exp/slices"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"honnef.co/go/swipedash/mysync"
)

// ErrRefreshFailed is returned by Refresh when the simulated backend fails.
var ErrRefreshFailed = errors.New("backend unavailable")

type Panel uint8

const (
	PanelOverview Panel = iota
	PanelNotifications
	PanelActivity
	panelCount
)

func (p Panel) String() string {
	switch p {
	case PanelOverview:
		return "Overview"
	case PanelNotifications:
		return "Notifications"
	case PanelActivity:
		return "Activity"
	default:
		return fmt.Sprintf("Panel(%d)", p)
	}
}

// Next returns the panel to the right of p, wrapping around.
func (p Panel) Next() Panel { return (p + 1) % panelCount }

// Prev returns the panel to the left of p, wrapping around.
func (p Panel) Prev() Panel { return (p + panelCount - 1) % panelCount }

func Panels() []Panel {
	return []Panel{PanelOverview, PanelNotifications, PanelActivity}
}

type Metric struct {
	Name  string
	Value int64
	Unit  string
	// Change is the relative change since the previous refresh.
	Change float64
}

type Severity uint8

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityCritical:
		return "critical"
	default:
		return fmt.Sprintf("Severity(%d)", s)
	}
}

type Notification struct {
	ID       uuid.UUID
	Title    string
	Severity Severity
	At       time.Time
}

type Activity struct {
	Who  string
	What string
	At   time.Time
}

// Snapshot is a consistent copy of the dashboard's data, safe to use without locking.
type Snapshot struct {
	Metrics       []Metric
	Notifications []Notification
	Activity      []Activity
	RefreshedAt   time.Time
	Refreshes     int
}

// Source simulates the backend the dashboard refreshes from.
type Source struct {
	// Latency is how long a refresh takes.
	Latency time.Duration
	// FailureRate is the probability in [0, 1] of a refresh failing.
	FailureRate float64
	// Rand is the source of randomness. It must only be used by one refresh at a time, which the dashboard ensures.
	Rand *rand.Rand
	// Now returns the current time.
	Now func() time.Time
}

func (src *Source) now() time.Time {
	if src.Now == nil {
		return time.Now()
	}
	return src.Now()
}

type data struct {
	snap Snapshot
	seq  int
}

// Dashboard is safe for concurrent use. Refresh usually runs on a goroutine of its own while the UI reads snapshots.
type Dashboard struct {
	src  *Source
	data mysync.Mutex[data]
	// refreshing serializes refreshes; the UI never starts overlapping ones, but other callers might.
	refreshing mysync.Mutex[struct{}]
}

// New returns a dashboard populated with mock data.
func New(src *Source) *Dashboard {
	if src.Rand == nil {
		src.Rand = rand.New(rand.NewSource(1))
	}
	now := src.now()
	d := &Dashboard{src: src}
	d.data.Do(func(dt *data) {
		dt.snap = Snapshot{
			Metrics: []Metric{
				{Name: "Active users", Value: 12_804},
				{Name: "Requests", Value: 1_482_113, Unit: "/h"},
				{Name: "Error rate", Value: 23, Unit: "‰"},
				{Name: "Revenue", Value: 48_250, Unit: "€"},
				{Name: "Open tickets", Value: 37},
				{Name: "Deploys", Value: 6, Unit: "today"},
			},
			Activity: []Activity{
				{Who: "ana", What: "merged #1289 into main", At: now.Add(-4 * time.Minute)},
				{Who: "deploy-bot", What: "rolled out web v2.14.1", At: now.Add(-17 * time.Minute)},
				{Who: "marek", What: "acknowledged disk pressure on db-2", At: now.Add(-41 * time.Minute)},
				{Who: "sofia", What: "closed 5 tickets", At: now.Add(-2 * time.Hour)},
			},
			RefreshedAt: now,
		}
		for i, title := range seedNotifications {
			dt.snap.Notifications = append(dt.snap.Notifications, Notification{
				ID:       uuid.New(),
				Title:    title.title,
				Severity: title.sev,
				At:       now.Add(-time.Duration(i+1) * 9 * time.Minute),
			})
		}
	})
	return d
}

var seedNotifications = []struct {
	title string
	sev   Severity
}{
	{"Certificate for api.example.com expires in 9 days", SeverityWarning},
	{"Nightly backup completed", SeverityInfo},
	{"db-2: disk usage above 85%", SeverityCritical},
	{"New sign-in from Lisbon", SeverityInfo},
	{"Queue latency back to normal", SeverityInfo},
}

var freshNotifications = []struct {
	title string
	sev   Severity
}{
	{"Payment provider reports degraded performance", SeverityWarning},
	{"Weekly report is ready", SeverityInfo},
	{"cache-1 restarted unexpectedly", SeverityCritical},
	{"3 new support tickets", SeverityInfo},
	{"Feature flag checkout-v2 enabled for 10%", SeverityInfo},
	{"Error budget 60% consumed", SeverityWarning},
}

// Snapshot returns a copy of the current data.
func (d *Dashboard) Snapshot() Snapshot {
	dt, u := d.data.RLock()
	defer u.RUnlock()
	snap := dt.snap
	snap.Metrics = slices.Clone(snap.Metrics)
	snap.Notifications = slices.Clone(snap.Notifications)
	snap.Activity = slices.Clone(snap.Activity)
	return snap
}

// Refresh simulates fetching new data. It waits for the source's latency, honouring ctx, and then either fails with
// ErrRefreshFailed or merges in new notifications and updated metrics.
func (d *Dashboard) Refresh(ctx context.Context) error {
	_, ru := d.refreshing.Lock()
	defer ru.Unlock()

	if d.src.Latency > 0 {
		t := time.NewTimer(d.src.Latency)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}

	rng := d.src.Rand
	if rng.Float64() < d.src.FailureRate {
		return ErrRefreshFailed
	}

	now := d.src.now()
	n := 1 + rng.Intn(2)

	dt, u := d.data.Lock()
	defer u.Unlock()

	for i := 0; i < n; i++ {
		fresh := freshNotifications[dt.seq%len(freshNotifications)]
		dt.seq++
		dt.snap.Notifications = append(dt.snap.Notifications, Notification{
			ID:       uuid.New(),
			Title:    fresh.title,
			Severity: fresh.sev,
			At:       now.Add(-time.Duration(i) * time.Second),
		})
	}
	slices.SortStableFunc(dt.snap.Notifications, func(a, b Notification) int {
		return b.At.Compare(a.At)
	})

	for i := range dt.snap.Metrics {
		m := &dt.snap.Metrics[i]
		change := (rng.Float64() - 0.5) / 10
		old := m.Value
		m.Value = max(0, old+int64(float64(old)*change))
		if old != 0 {
			m.Change = float64(m.Value-old) / float64(old)
		} else {
			m.Change = 0
		}
	}

	dt.snap.Activity = append([]Activity{{Who: "you", What: "refreshed the dashboard", At: now}}, dt.snap.Activity...)
	dt.snap.RefreshedAt = now
	dt.snap.Refreshes++
	return nil
}

var printer = message.NewPrinter(language.English)

// FormatValue formats a metric's value with digit grouping and its unit.
func FormatValue(m Metric) string {
	switch m.Unit {
	case "":
		return printer.Sprintf("%d", m.Value)
	case "/h", "‰", "€":
		return printer.Sprintf("%d%s", m.Value, m.Unit)
	default:
		return printer.Sprintf("%d %s", m.Value, m.Unit)
	}
}

// FormatChange formats a metric's relative change, e.g. "+1.2%".
func FormatChange(m Metric) string {
	return fmt.Sprintf("%+.1f%%", m.Change*100)
}

// Ago formats t relative to now, e.g. "3 minutes ago".
func Ago(t, now time.Time) string {
	if now.Sub(t) < time.Second {
		return "now"
	}
	return humanize.RelTime(t, now, "ago", "from now")
}
