package converter

import (
	"github.com/iho/stmtledger/internal/adapter/grpc/ledgerv1"
	"github.com/iho/stmtledger/internal/domain"
	"github.com/iho/stmtledger/internal/usecase"
)

// AccountToPb converts domain.Account to its wire form. The password hash is never exposed.
func AccountToPb(a *domain.Account) *ledgerv1.Account {
	if a == nil {
		return nil
	}

	return &ledgerv1.Account{
		ID:        a.ID,
		Name:      a.Name,
		Email:     a.Email,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// StatementToPb converts domain.Statement to its wire form.
func StatementToPb(s *domain.Statement) *ledgerv1.Statement {
	if s == nil {
		return nil
	}

	return &ledgerv1.Statement{
		ID:          s.ID,
		AccountID:   s.AccountID,
		Operation:   string(s.Operation),
		Amount:      s.Amount.String(),
		Description: s.Description,
		CreatedAt:   s.CreatedAt,
	}
}

func StatementsToPb(statements []*domain.Statement) []*ledgerv1.Statement {
	result := make([]*ledgerv1.Statement, len(statements))
	for i, s := range statements {
		result[i] = StatementToPb(s)
	}
	return result
}

// BalanceToPb converts a balance report.
func BalanceToPb(r *usecase.BalanceReport) *ledgerv1.GetBalanceResponse {
	return &ledgerv1.GetBalanceResponse{
		AccountID:  r.AccountID,
		Balance:    r.Balance.String(),
		Statements: StatementsToPb(r.Statements),
	}
}

// ReconciliationToPb converts a reconciliation result.
func ReconciliationToPb(r *usecase.ReconciliationResult) *ledgerv1.ReconcileResponse {
	return &ledgerv1.ReconcileResponse{
		AccountID:         r.AccountID,
		StatementCount:    int32(r.StatementCount),
		RecordedBalance:   r.RecordedBalance.String(),
		CalculatedBalance: r.CalculatedBalance.String(),
		Difference:        r.Difference.String(),
		IsReconciled:      r.IsReconciled,
		LastChecked:       r.LastChecked,
	}
}
