package payments

import "github.com/pledgekit/pledgekit/app/models"

// ValidateProjectReady gates a loaded project as ready to receive
// subscriptions: it must resolve to a plan and a chargeable connected
// account. Returns the bare rejection kind on failure.
func ValidateProjectReady(project *models.Project) error {
	if project.Plan == nil {
		return ErrProjectNotReady
	}
	account := project.ConnectAccount()
	if account == nil || !account.IsChargeable() {
		return ErrProjectNotReady
	}
	return nil
}

// ValidateUserReady gates a loaded user as ready to subscribe: the platform
// customer must exist and carry a usable card.
func ValidateUserReady(user *models.User) error {
	if user.Customer == nil || user.DefaultCard() == nil {
		return ErrUserNotReady
	}
	return nil
}
