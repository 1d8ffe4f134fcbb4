package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/autostrada/auction-api/internal/model"
)

func TestDeleteUserGuard(t *testing.T) {
	tests := []struct {
		name         string
		role         model.Role
		adminCount   int
		liveAuctions int
		wantCode     int
	}{
		{
			name:       "sole_admin_always_blocked",
			role:       model.RoleAdmin,
			adminCount: 1,
			wantCode:   http.StatusBadRequest,
		},
		{
			name:       "second_admin_deletable",
			role:       model.RoleAdmin,
			adminCount: 2,
			wantCode:   0,
		},
		{
			name:         "seller_with_live_auctions_blocked",
			role:         model.RoleSeller,
			liveAuctions: 2,
			wantCode:     http.StatusConflict,
		},
		{
			name:         "sole_admin_guard_wins_over_live_auctions",
			role:         model.RoleAdmin,
			adminCount:   1,
			liveAuctions: 3,
			wantCode:     http.StatusBadRequest,
		},
		{
			name:     "buyer_deletable",
			role:     model.RoleBuyer,
			wantCode: 0,
		},
		{
			name:     "seller_with_only_finished_auctions_deletable",
			role:     model.RoleSeller,
			wantCode: 0,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			code, msg := deleteUserGuard(tc.role, tc.adminCount, tc.liveAuctions)
			require.Equal(t, tc.wantCode, code)
			if tc.wantCode == 0 {
				require.Empty(t, msg)
			} else {
				require.NotEmpty(t, msg)
			}
		})
	}
}
