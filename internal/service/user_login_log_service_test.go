package service

import (
	"fmt"
	"testing"

	"github.com/tresmontes-cajas/internal/constants"
	"github.com/tresmontes-cajas/internal/repository"
)

func TestUserLoginLogRecordClassifiesFailures(t *testing.T) {
	env := setupServiceTest(t)
	logs := NewUserLoginLogService(repository.NewUserLoginLogRepository(env.db))

	inputs := []RecordUserLoginInput{
		{UserID: 7, Username: " guardia ", ClientIP: "10.0.0.1"},
		{UserID: 7, Username: "guardia", Err: fmt.Errorf("login: %w", ErrInvalidCredentials)},
		{UserID: 7, Username: "guardia", Err: ErrUserDisabled},
		{Username: "ghost", Err: ErrCaptchaInvalid},
		{Username: "ghost", Err: fmt.Errorf("db down")},
	}
	for _, input := range inputs {
		if err := logs.Record(input); err != nil {
			t.Fatalf("record failed: %v", err)
		}
	}

	items, total, err := logs.List(repository.UserLoginLogListFilter{Status: constants.LoginLogStatusFailed})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 4 {
		t.Fatalf("failed attempts want 4 got %d", total)
	}
	want := []string{
		constants.LoginLogFailReasonInternalError,
		constants.LoginLogFailReasonCaptchaInvalid,
		constants.LoginLogFailReasonUserDisabled,
		constants.LoginLogFailReasonInvalidCredentials,
	}
	for i, item := range items {
		if item.FailReason != want[i] {
			t.Fatalf("item %d fail reason want %s got %s", i, want[i], item.FailReason)
		}
	}

	own, total, err := logs.ListByUser(7, 1, 10)
	if err != nil {
		t.Fatalf("list by user failed: %v", err)
	}
	if total != 3 || own[2].Username != "guardia" || own[2].Status != constants.LoginLogStatusSuccess {
		t.Fatalf("unexpected own logs: total=%d %+v", total, own)
	}
}
