package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/rpgo/retirement-projector/internal/domain"
	"github.com/rpgo/retirement-projector/pkg/timeline"
)

// AccountLedger holds the evolving balance of every investment account
// across the projection. It is the only stateful piece of the month loop.
type AccountLedger struct {
	accounts []domain.InvestmentAccount
	balances map[string]decimal.Decimal
	Logger   Logger
}

// MonthMovement reports what one AdvanceMonth call did to the ledger.
type MonthMovement struct {
	WithdrawalsByAccount map[string]decimal.Decimal
	TotalWithdrawals     decimal.Decimal
	TotalContributions   decimal.Decimal
}

// NewAccountLedger seeds a ledger from the scenario's starting balances.
func NewAccountLedger(accounts []domain.InvestmentAccount, logger Logger) *AccountLedger {
	if logger == nil {
		logger = NopLogger{}
	}
	balances := make(map[string]decimal.Decimal, len(accounts))
	for i := range accounts {
		balances[accounts[i].AccountID] = accounts[i].StartingBalance
	}
	return &AccountLedger{
		accounts: accounts,
		balances: balances,
		Logger:   logger,
	}
}

// AdvanceMonth applies one month of activity to every account, in order:
// growth at the monthly rate on the opening balance, then the scheduled
// contribution, then the scheduled withdrawal. A withdrawal larger than the
// available balance is truncated to what the account holds, and the balance
// never goes below zero.
func (al *AccountLedger) AdvanceMonth(ym timeline.YearMonth) MonthMovement {
	movement := MonthMovement{
		WithdrawalsByAccount: make(map[string]decimal.Decimal, len(al.accounts)),
	}

	for i := range al.accounts {
		account := &al.accounts[i]
		balance := al.balances[account.AccountID]

		balance = balance.Add(balance.Mul(account.MonthlyReturnRate()))

		if account.ContributesIn(ym) && account.MonthlyContribution.IsPositive() {
			balance = balance.Add(account.MonthlyContribution)
			movement.TotalContributions = movement.TotalContributions.Add(account.MonthlyContribution)
		}

		withdrawal := decimal.Zero
		if account.WithdrawsIn(ym) && account.MonthlyWithdrawal.IsPositive() {
			withdrawal = account.MonthlyWithdrawal
			if withdrawal.GreaterThan(balance) {
				al.Logger.Debugf("account %s: withdrawal %s truncated to balance %s in %s",
					account.AccountID, withdrawal, balance, ym)
				withdrawal = balance
			}
			balance = balance.Sub(withdrawal)
		}

		if balance.IsNegative() {
			balance = decimal.Zero
		}
		al.balances[account.AccountID] = balance

		movement.WithdrawalsByAccount[account.AccountID] = withdrawal
		movement.TotalWithdrawals = movement.TotalWithdrawals.Add(withdrawal)
	}

	return movement
}

// Balance returns the current balance of one account.
func (al *AccountLedger) Balance(accountID string) decimal.Decimal {
	return al.balances[accountID]
}

// BalancesByAccount returns a copy of every current balance keyed by
// account ID.
func (al *AccountLedger) BalancesByAccount() map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(al.balances))
	for id, bal := range al.balances {
		out[id] = bal
	}
	return out
}

// TotalInvestments sums every account balance.
func (al *AccountLedger) TotalInvestments() decimal.Decimal {
	total := decimal.Zero
	for _, bal := range al.balances {
		total = total.Add(bal)
	}
	return total
}

// RollupByTaxBucket groups per-account amounts into per-bucket totals.
// Buckets with no accounts are omitted.
func RollupByTaxBucket(accounts []domain.InvestmentAccount, byAccount map[string]decimal.Decimal) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal)
	for i := range accounts {
		account := &accounts[i]
		bucket := string(account.TaxBucket)
		out[bucket] = out[bucket].Add(byAccount[account.AccountID])
	}
	return out
}
