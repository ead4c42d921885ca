// Package ledgerv1 holds the messages and service descriptor of the
// stmtledger.v1.LedgerService gRPC API. Messages travel with the JSON codec.
package ledgerv1

import "time"

// Account is the public view of a registered account.
type Account struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Statement is one immutable balance change.
type Statement struct {
	ID          string    `json:"id"`
	AccountID   string    `json:"account_id"`
	Operation   string    `json:"operation"`
	Amount      string    `json:"amount"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

type CreateAccountRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CreateAccountResponse struct {
	Account *Account `json:"account"`
}

type GetAccountRequest struct {
	AccountID string `json:"account_id"`
}

func (r *GetAccountRequest) GetAccountID() string { return r.AccountID }

type GetAccountResponse struct {
	Account *Account `json:"account"`
}

type VerifyCredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type VerifyCredentialsResponse struct {
	Account *Account `json:"account"`
}

// RecordStatementRequest is shared by Deposit and Withdraw. Amount is a
// decimal string.
type RecordStatementRequest struct {
	AccountID   string `json:"account_id"`
	Amount      string `json:"amount"`
	Description string `json:"description,omitempty"`
}

func (r *RecordStatementRequest) GetAccountID() string { return r.AccountID }

type RecordStatementResponse struct {
	Statement *Statement `json:"statement"`
}

type GetStatementRequest struct {
	AccountID   string `json:"account_id"`
	StatementID string `json:"statement_id"`
}

func (r *GetStatementRequest) GetAccountID() string { return r.AccountID }

type GetStatementResponse struct {
	Statement *Statement `json:"statement"`
}

type ListStatementsRequest struct {
	AccountID string `json:"account_id"`
	Limit     int32  `json:"limit"`
	Offset    int32  `json:"offset"`
}

func (r *ListStatementsRequest) GetAccountID() string { return r.AccountID }

type ListStatementsResponse struct {
	Statements []*Statement `json:"statements"`
	Limit      int32        `json:"limit"`
	Offset     int32        `json:"offset"`
}

type GetBalanceRequest struct {
	AccountID string `json:"account_id"`
}

func (r *GetBalanceRequest) GetAccountID() string { return r.AccountID }

type GetBalanceResponse struct {
	AccountID  string       `json:"account_id"`
	Balance    string       `json:"balance"`
	Statements []*Statement `json:"statements"`
}

type ReconcileRequest struct {
	AccountID string `json:"account_id"`
}

func (r *ReconcileRequest) GetAccountID() string { return r.AccountID }

type ReconcileResponse struct {
	AccountID         string    `json:"account_id"`
	StatementCount    int32     `json:"statement_count"`
	RecordedBalance   string    `json:"recorded_balance"`
	CalculatedBalance string    `json:"calculated_balance"`
	Difference        string    `json:"difference"`
	IsReconciled      bool      `json:"is_reconciled"`
	LastChecked       time.Time `json:"last_checked"`
}
