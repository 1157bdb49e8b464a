package user

import (
	"testing"

	"github.com/mwalimu/shule/core"
)

func TestDeriveStudentID(t *testing.T) {
	tests := []struct {
		name       string
		username   string
		gradeLevel int
		want       string
	}{
		{name: "4-char username", username: "john", gradeLevel: 5, want: "STUjohn05"},
		{name: "long username keeps last 4", username: "alexander", gradeLevel: 10, want: "STUnder10"},
		{name: "short username zero-padded", username: "ab", gradeLevel: 3, want: "STU00ab03"},
		{name: "single char", username: "x", gradeLevel: 12, want: "STU000x12"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveStudentID(tt.username, tt.gradeLevel); got != tt.want {
				t.Errorf("DeriveStudentID() = %s, want %s", got, tt.want)
			}
			// deterministic
			if got := DeriveStudentID(tt.username, tt.gradeLevel); got != tt.want {
				t.Errorf("DeriveStudentID() second call = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestSession_Require(t *testing.T) {
	tests := []struct {
		name    string
		sess    *Session
		roles   []string
		wantErr error
	}{
		{name: "nil session", sess: nil, roles: []string{RoleAdmin}, wantErr: core.ErrPermissionDenied},
		{
			name:    "inactive user",
			sess:    &Session{User: User{Role: RoleAdmin, IsActive: false}},
			roles:   []string{RoleAdmin},
			wantErr: core.ErrPermissionDenied,
		},
		{
			name:    "wrong role",
			sess:    &Session{User: User{Role: RoleStudent, IsActive: true}},
			roles:   []string{RoleTeacher},
			wantErr: core.ErrPermissionDenied,
		},
		{
			name:  "matching role",
			sess:  &Session{User: User{Role: RoleTeacher, IsActive: true}},
			roles: []string{RoleTeacher},
		},
		{
			name:  "one of several roles",
			sess:  &Session{User: User{Role: RoleStudent, IsActive: true}},
			roles: []string{RoleAdmin, RoleStudent},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.sess.Require(tt.roles...); err != tt.wantErr {
				t.Errorf("Require() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestUser_SetCheckPassword(t *testing.T) {
	var usr User
	if err := usr.SetPassword("s3cretPass"); err != nil {
		t.Fatalf("SetPassword() failed: %v", err)
	}
	if err := usr.CheckPassword("s3cretPass"); err != nil {
		t.Errorf("CheckPassword() failed for correct password: %v", err)
	}
	if err := usr.CheckPassword("S3cretPass"); err == nil {
		t.Error("CheckPassword() accepted a wrong password")
	}
}
