package report

import (
	"bytes"
	"context"
	"net/mail"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"

	"github.com/mwalimu/shule/core"
	"github.com/mwalimu/shule/core/user"
)

var (
	ErrStudentNotFound = errors.New("student not found")

	NowFunc = time.Now // mockable
)

type (
	Repository interface {
		// GetStudent returns ErrStudentNotFound for unknown usernames.
		GetStudent(ctx context.Context, username string) (user.Student, error)
		QueryReportRows(ctx context.Context, username string) ([]Row, error)
	}

	Service struct {
		repo    Repository
		mailSvc core.EmailService
		log     core.Logger
	}
)

func NewService(repo Repository, mailSvc core.EmailService, log core.Logger) *Service {
	return &Service{repo: repo, mailSvc: mailSvc, log: log}
}

// Build assembles the report data for a student.
func (svc *Service) Build(ctx context.Context, username string) (StudentReport, error) {
	st, err := svc.repo.GetStudent(ctx, username)
	if err != nil {
		return StudentReport{}, err
	}
	rows, err := svc.repo.QueryReportRows(ctx, username)
	if err != nil {
		return StudentReport{}, err
	}
	return StudentReport{Student: st, Rows: rows}, nil
}

// Render produces the plain-text report.
func (svc *Service) Render(rpt StudentReport) (string, error) {
	var buff bytes.Buffer
	if err := reportTmpl.Execute(&buff, rpt); err != nil {
		return "", errors.Wrap(err, "rendering report")
	}
	return buff.String(), nil
}

// Export writes the student's report to dir under the
// report_<username>_<YYYYMMDD>.txt convention and returns its path.
// No file is written when the student does not exist.
func (svc *Service) Export(ctx context.Context, username, dir string) (string, error) {
	rpt, err := svc.Build(ctx, username)
	if err != nil {
		return "", err
	}
	text, err := svc.Render(rpt)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, Filename(username, NowFunc()))
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", errors.Wrap(err, "writing report file")
	}
	svc.log.Info("report exported", path)
	return path, nil
}

// Email renders the student's report and sends it as an attachment.
func (svc *Service) Email(ctx context.Context, username string, to mail.Address) error {
	if svc.mailSvc == nil {
		return nil
	}
	rpt, err := svc.Build(ctx, username)
	if err != nil {
		return err
	}
	text, err := svc.Render(rpt)
	if err != nil {
		return err
	}

	msg := &core.EmailMessage{
		To:      []mail.Address{to},
		Subject: "Student report for " + username,
		BodyStr: "Attached is the latest report for " + username + ".",
	}
	if err := msg.Attach(bytes.NewBufferString(text), Filename(username, NowFunc()), "text/plain"); err != nil {
		return err
	}
	svc.mailSvc.SendMessages(msg)
	return nil
}
