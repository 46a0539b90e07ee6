// ABOUTME: Tests for recent spots management
// ABOUTME: Validates storage, max limit, ordering and resolution against known spots

package recentspots

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Bryanads/thecheck-frontend-app/internal/models"
)

func TestLoadEmpty(t *testing.T) {
	rs := New(t.TempDir())

	ids, err := rs.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("expected empty list, got %v", ids)
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	if err := New(dir).Save([]int{3, 1}); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	ids, err := New(dir).Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(ids) != 2 || ids[0] != 3 || ids[1] != 1 {
		t.Errorf("expected [3 1], got %v", ids)
	}
}

func TestAddMoveToFront(t *testing.T) {
	rs := New(t.TempDir())

	rs.Add(1)
	rs.Add(2)
	rs.Add(1)

	ids, _ := rs.Load()
	if len(ids) != 2 {
		t.Fatalf("expected 2 spots after re-add, got %v", ids)
	}
	if ids[0] != 1 {
		t.Errorf("expected 1 first after re-add, got %v", ids)
	}
}

func TestMaxLimit(t *testing.T) {
	rs := New(t.TempDir())
	for id := 1; id <= 7; id++ {
		rs.Add(id)
	}

	ids, _ := rs.Load()
	if len(ids) != MaxRecentSpots {
		t.Errorf("expected %d spots max, got %d", MaxRecentSpots, len(ids))
	}
	if ids[0] != 7 {
		t.Errorf("expected 7 first, got %v", ids)
	}
}

func TestInvalidJSONStartsFresh(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "recent_spots.json"), []byte("{nope"), 0600)

	ids, err := New(dir).Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("expected empty list, got %v", ids)
	}
}

func TestResolveDropsUnknownSpots(t *testing.T) {
	rs := New(t.TempDir())
	rs.Save([]int{9, 2})

	got := rs.Resolve([]models.Spot{{ID: 1, Name: "Arpoador"}, {ID: 2, Name: "Itacoatiara"}})
	if len(got) != 1 || got[0].Name != "Itacoatiara" {
		t.Errorf("expected only Itacoatiara, got %+v", got)
	}
}

func TestCreatesConfigDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "thecheck")
	rs := New(dir)

	rs.Add(1)

	if _, err := os.Stat(dir); os.IsNotExist(err) {
		t.Error("config dir should have been created")
	}
}

func TestInMemoryWithoutDir(t *testing.T) {
	rs := New("")
	rs.Add(4)

	ids, _ := rs.Load()
	if len(ids) != 1 || ids[0] != 4 {
		t.Errorf("expected [4], got %v", ids)
	}
}
