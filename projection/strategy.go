package projection

import "fmt"

// Strategy is the closed set of repayment policies Project can run. The
// unexported marker keeps implementations inside this package.
type Strategy interface {
	Method() Method
	strategy()
}

// Bullet, Amortization, InterestOnly and EqualPrincipal need nothing beyond
// the base loan terms.
type (
	Bullet         struct{ LoanInput }
	Amortization   struct{ LoanInput }
	InterestOnly   struct{ LoanInput }
	EqualPrincipal struct{ LoanInput }
)

func (Bullet) Method() Method           { return MethodBullet }
func (Amortization) Method() Method     { return MethodAmortization }
func (InterestOnly) Method() Method     { return MethodInterestOnly }
func (EqualPrincipal) Method() Method   { return MethodEqualPrincipal }
func (ReborrowInput) Method() Method    { return MethodReborrowing }
func (GraduatedInput) Method() Method   { return MethodGraduated }
func (SettlementInput) Method() Method  { return MethodSettlement }
func (ForbearanceInput) Method() Method { return MethodForbearance }

// Method reports snowball or avalanche depending on the order.
func (in PortfolioInput) Method() Method {
	if in.Order == OrderAvalanche {
		return MethodAvalanche
	}
	return MethodSnowball
}

func (Bullet) strategy()           {}
func (Amortization) strategy()     {}
func (InterestOnly) strategy()     {}
func (EqualPrincipal) strategy()   {}
func (ReborrowInput) strategy()    {}
func (GraduatedInput) strategy()   {}
func (SettlementInput) strategy()  {}
func (ForbearanceInput) strategy() {}
func (PortfolioInput) strategy()   {}

// Project runs the projector matching s.
func Project(s Strategy) (Projection, error) {
	switch v := s.(type) {
	case Bullet:
		return ProjectBullet(v.LoanInput)
	case Amortization:
		return ProjectAmortization(v.LoanInput)
	case InterestOnly:
		return ProjectInterestOnly(v.LoanInput)
	case EqualPrincipal:
		return ProjectEqualPrincipal(v.LoanInput)
	case ReborrowInput:
		return ProjectReborrowing(v)
	case GraduatedInput:
		return ProjectGraduated(v)
	case SettlementInput:
		return ProjectSettlement(v)
	case ForbearanceInput:
		return ProjectForbearance(v)
	case PortfolioInput:
		return ProjectPortfolio(v)
	case nil:
		return Projection{}, invalid("strategy", "is required")
	}
	panic(fmt.Sprintf("projection: unhandled strategy %T", s))
}
