package recommend

import "github.com/foundershelf/foundershelf-server/internal/domain"

// ProfileView exposes exactly the profile fields the scorers read. Two
// implementations exist: the persisted profile and an ad-hoc preview profile
// supplied in a request body. The engine never sees the difference.
type ProfileView interface {
	Stage() string
	BusinessModel() string
	Challenge() string
	FocusAreas() []string
	RevenueRange() string
	Vision() string
}

// storedProfile adapts a persisted domain.Profile to ProfileView.
type storedProfile struct {
	p *domain.Profile
}

// ViewProfile wraps a persisted profile. A nil profile yields a nil view,
// which the engine treats as cold start.
func ViewProfile(p *domain.Profile) ProfileView {
	if p == nil {
		return nil
	}
	return storedProfile{p: p}
}

func (v storedProfile) Stage() string         { return v.p.Stage }
func (v storedProfile) BusinessModel() string { return v.p.BusinessModel }
func (v storedProfile) Challenge() string     { return v.p.BiggestChallenge }
func (v storedProfile) FocusAreas() []string  { return v.p.FocusAreas }
func (v storedProfile) RevenueRange() string  { return v.p.RevenueRange }
func (v storedProfile) Vision() string        { return v.p.Vision }

// AdHocProfile is a preview-mode profile built from a request body, not tied
// to any stored user.
type AdHocProfile struct {
	BusinessStage    string
	Model            string
	BiggestChallenge string
	Areas            []string
	Revenue          string
	VisionText       string
}

func (a AdHocProfile) Stage() string         { return a.BusinessStage }
func (a AdHocProfile) BusinessModel() string { return a.Model }
func (a AdHocProfile) Challenge() string     { return a.BiggestChallenge }
func (a AdHocProfile) FocusAreas() []string  { return a.Areas }
func (a AdHocProfile) RevenueRange() string  { return a.Revenue }
func (a AdHocProfile) Vision() string        { return a.VisionText }
