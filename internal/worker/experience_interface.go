package worker

import "context"

// ExperienceRecalculator recomputes a user's aggregated experience.
// This avoids import cycles by not importing the services package
type ExperienceRecalculator interface {
	RecalculateExperience(ctx context.Context, uid string) error
}
