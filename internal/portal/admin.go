package portal

import (
	"context"

	"github.com/sirupsen/logrus"

	"portal/internal/account"
)

// ListAdmins returns every admin record.
func (s *Service) ListAdmins(ctx context.Context) ([]account.View, error) {
	return s.ListAccounts(ctx, account.KindAdmin)
}

// ListAccounts returns every record of the given kinds (all kinds when
// none are given), each tagged with its kind and display name.
func (s *Service) ListAccounts(ctx context.Context, kinds ...account.Kind) ([]account.View, error) {
	records, err := s.dir.List(ctx, kinds...)
	if err != nil {
		return nil, err
	}
	views := make([]account.View, 0, len(records))
	for _, a := range records {
		views = append(views, account.NewView(a))
	}
	return views, nil
}

// UpdateStatus sets accountStatus on the record ref names, trying each
// kind in account.AdministrationOrder.
func (s *Service) UpdateStatus(ctx context.Context, actor account.Identity, ref, status string) (*account.Account, error) {
	st, ok := account.ParseStatus(status)
	if !ok {
		return nil, account.NewValidationError(formatMessages["account_status"])
	}
	a, err := s.dir.UpdateStatus(ctx, ref, st)
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{
		"actor":  actor.ID,
		"kind":   a.Kind,
		"key":    a.Key(),
		"status": st,
	}).Info("account status updated")
	return a, nil
}

// Delete physically removes the record ref names.
func (s *Service) Delete(ctx context.Context, actor account.Identity, ref string) (*account.Account, error) {
	a, err := s.dir.Delete(ctx, ref)
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{
		"actor": actor.ID,
		"kind":  a.Kind,
		"key":   a.Key(),
	}).Info("account deleted")
	return a, nil
}
