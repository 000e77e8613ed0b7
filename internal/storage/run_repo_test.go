package storage

import (
	"database/sql"
	"errors"
	"net/netip"
	"path/filepath"
	"testing"

	"github.com/rhiyo/nsmon/internal/models"
)

func testRepo(t *testing.T) *RunRepo {
	t.Helper()
	db, err := InitDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("InitDB() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewRunRepo(db)
}

func sampleResults() []models.CheckResult {
	ns1 := models.NameServer{Name: "ns1.rhiyo.com.", Address: netip.MustParseAddr("173.255.245.83")}
	return []models.CheckResult{
		{
			Check:      models.Check{Server: ns1, Record: "ns1.rhiyo.com.", ExpectedIP: ns1.Address},
			Outcome:    models.OutcomePass,
			Attempts:   1,
			DurationMS: 12,
		},
		{
			Check:      models.Check{Server: ns1, Record: "ns2.rhiyo.com.", ExpectedIP: netip.MustParseAddr("212.71.246.209")},
			Outcome:    models.OutcomeFail,
			Failure:    models.FailureMismatch,
			ActualIP:   netip.MustParseAddr("192.0.2.99"),
			Attempts:   1,
			DurationMS: 15,
		},
	}
}

func TestRunRepo_CreateAndGet(t *testing.T) {
	repo := testRepo(t)

	report := "Automated outage report\n\nServer ns1.rhiyo.com. resolving ns2.rhiyo.com. FAIL\n"
	run, err := repo.Create(true, report, sampleResults())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if run.ID == 0 {
		t.Error("Create() assigned no run id")
	}

	got, err := repo.GetByID(run.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if !got.AnyFailed {
		t.Error("AnyFailed = false, want true")
	}
	if got.Report != report {
		t.Errorf("Report = %q, want stored report", got.Report)
	}
	if got.StartedAt == "" {
		t.Error("StartedAt is empty")
	}

	results, err := repo.GetResults(run.ID)
	if err != nil {
		t.Fatalf("GetResults() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}
	if results[0].Outcome != string(models.OutcomePass) {
		t.Errorf("results[0].Outcome = %q, want PASS", results[0].Outcome)
	}
	if results[1].Failure != string(models.FailureMismatch) {
		t.Errorf("results[1].Failure = %q, want mismatch", results[1].Failure)
	}
	if results[1].ActualIP != "192.0.2.99" {
		t.Errorf("results[1].ActualIP = %q, want %q", results[1].ActualIP, "192.0.2.99")
	}
	if results[0].ActualIP != "" {
		t.Errorf("results[0].ActualIP = %q, want empty for a pass", results[0].ActualIP)
	}
}

func TestRunRepo_GetRunsNewestFirst(t *testing.T) {
	repo := testRepo(t)

	first, err := repo.Create(false, "report one", nil)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	second, err := repo.Create(true, "report two", nil)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	runs, err := repo.GetRuns(10, 0)
	if err != nil {
		t.Fatalf("GetRuns() error = %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("len(runs) = %d, want 2", len(runs))
	}
	if runs[0].ID != second.ID {
		t.Errorf("runs[0].ID = %d, want newest run %d first", runs[0].ID, second.ID)
	}
	if runs[1].ID != first.ID {
		t.Errorf("runs[1].ID = %d, want %d", runs[1].ID, first.ID)
	}

	count, err := repo.Count()
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 2 {
		t.Errorf("Count() = %d, want 2", count)
	}
}

func TestRunRepo_GetRunsPagination(t *testing.T) {
	repo := testRepo(t)

	for i := 0; i < 5; i++ {
		if _, err := repo.Create(false, "report", nil); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	page, err := repo.GetRuns(2, 2)
	if err != nil {
		t.Fatalf("GetRuns() error = %v", err)
	}
	if len(page) != 2 {
		t.Errorf("len(page) = %d, want 2", len(page))
	}
	if page[0].ID != 3 {
		t.Errorf("page[0].ID = %d, want 3 (ids 5,4 skipped)", page[0].ID)
	}
}

func TestRunRepo_GetByID_NotFound(t *testing.T) {
	repo := testRepo(t)

	_, err := repo.GetByID(1234)
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("GetByID() error = %v, want sql.ErrNoRows", err)
	}
}
