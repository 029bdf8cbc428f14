package dto

type BulkEmailRequest struct {
	References []string `json:"references" validate:"required,min=1,dive,required"`
	Subject    string   `json:"subject" validate:"required,max=255"`
	Body       string   `json:"body" validate:"required"`
}

type DeadlineReminderRequest struct {
	// Dry run reports recipients without sending anything.
	DryRun bool `json:"dry_run"`
}
