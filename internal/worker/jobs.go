package worker

import "context"

// ExperienceRecalcJob recomputes one user's experience aggregate from their
// full mastery set. Recalculation is idempotent, so a duplicate enqueue for
// the same uid is harmless.
type ExperienceRecalcJob struct {
	Recalculator ExperienceRecalculator
	UID          string
}

func (j *ExperienceRecalcJob) Name() string { return "experience_recalc" }

func (j *ExperienceRecalcJob) Run(ctx context.Context) error {
	return j.Recalculator.RecalculateExperience(ctx, j.UID)
}
