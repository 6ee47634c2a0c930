package repository

import (
	"errors"
	"testing"

	"gorm.io/gorm"
)

func TestCodeSequenceNextJumpsPastCodesInUse(t *testing.T) {
	db := setupRepositoryTest(t)
	repo := NewCodeSequenceRepository(db)

	cases := []struct {
		inUse int
		want  int
	}{
		{inUse: 4, want: 5},
		{inUse: 5, want: 6},
		{inUse: 0, want: 7},
		{inUse: 10, want: 11},
		{inUse: 3, want: 12},
	}
	for _, tc := range cases {
		var got int
		err := db.Transaction(func(tx *gorm.DB) error {
			var err error
			got, err = repo.WithTx(tx).Next("0112", "CB", func() (int, error) { return tc.inUse, nil })
			return err
		})
		if err != nil {
			t.Fatalf("next failed: %v", err)
		}
		if got != tc.want {
			t.Fatalf("in use %d: next want %d got %d", tc.inUse, tc.want, got)
		}
	}

	seq, err := repo.Get("0112", "CB")
	if err != nil || seq == nil {
		t.Fatalf("get failed: %v", err)
	}
	if seq.LastValue != 12 {
		t.Fatalf("counter want 12 got %d", seq.LastValue)
	}

	other, err := repo.Next("0112", "BIF", nil)
	if err != nil {
		t.Fatalf("next other plant failed: %v", err)
	}
	if other != 1 {
		t.Fatalf("fresh bucket should start at 1, got %d", other)
	}
}

func TestCodeSequenceNextRollsBackWithTransaction(t *testing.T) {
	db := setupRepositoryTest(t)
	repo := NewCodeSequenceRepository(db)
	boom := errors.New("boom")

	err := db.Transaction(func(tx *gorm.DB) error {
		if _, err := repo.WithTx(tx).Next("0112", "CB", nil); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	seq, err := repo.Get("0112", "CB")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if seq != nil {
		t.Fatalf("counter should be rolled back, got %+v", seq)
	}
}

func TestCodeSequenceInUseErrorPropagates(t *testing.T) {
	db := setupRepositoryTest(t)
	boom := errors.New("scan failed")
	_, err := NewCodeSequenceRepository(db).Next("0112", "CB", func() (int, error) { return 0, boom })
	if !errors.Is(err, boom) {
		t.Fatalf("expected scan error, got %v", err)
	}
}
