// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"context"

	apperrors "odoomcp/cli/internal/errors"
)

// UserInfo describes the authenticated Odoo user.
type UserInfo struct {
	ID       int64  `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Login    string `json:"login" yaml:"login"`
	Database string `json:"database" yaml:"database"`
}

// WhoAmI authenticates if needed and reads the current user's name and login
// from res.users.
func (s *Session) WhoAmI(ctx context.Context) (*UserInfo, error) {
	uid := s.UID()
	if uid == 0 {
		var err error
		if uid, err = s.Authenticate(ctx); err != nil {
			return nil, err
		}
	}

	records, err := s.Read(ctx, "res.users", []int64{uid}, []string{"name", "login"})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, apperrors.Newf(apperrors.RemoteCall, "user %d not found", uid)
	}

	info := &UserInfo{ID: uid, Database: s.desc.Database}
	info.Name, _ = records[0]["name"].(string)
	info.Login, _ = records[0]["login"].(string)
	return info, nil
}
