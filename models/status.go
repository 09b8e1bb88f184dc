package models

/************************************************
/**** MARK: INTENT STATUS ****/
/************************************************/
const INTENT_STATUS_TO_DEPLOY = "to_deploy"
const INTENT_STATUS_ACTIVE = "active"
const INTENT_STATUS_ACTIVE_MODIFIED = "active_modified"
const INTENT_STATUS_IN_TRAINING = "in_training"
const INTENT_STATUS_TO_ARCHIVE = "to_archive"
const INTENT_STATUS_ARCHIVED = "archived"

/************************************************
/**** MARK: INBOX STATUS ****/
/************************************************/
const INBOX_STATUS_PENDING = "pending"
const INBOX_STATUS_TO_VERIFY = "to_verify"
const INBOX_STATUS_CONFIRMED = "confirmed"
const INBOX_STATUS_ARCHIVED = "archived"
const INBOX_STATUS_RELEVANT = "relevant"
const INBOX_STATUS_WRONG = "wrong"
const INBOX_STATUS_OFF_TOPIC = "off_topic"

/************************************************
/**** MARK: FEEDBACK STATUS ****/
/************************************************/
const FEEDBACK_STATUS_RELEVANT = INBOX_STATUS_RELEVANT
const FEEDBACK_STATUS_WRONG = INBOX_STATUS_WRONG
const FEEDBACK_STATUS_OFF_TOPIC = INBOX_STATUS_OFF_TOPIC

// Confidence thresholds used to classify a reconciled turn.
const CONFIDENCE_TO_VERIFY = 0.6
const CONFIDENCE_CONFIRMED = 0.95

// DeployableIntentStatuses are exported to the bot engine files.
var DeployableIntentStatuses = []string{
	INTENT_STATUS_TO_DEPLOY,
	INTENT_STATUS_ACTIVE,
	INTENT_STATUS_IN_TRAINING,
	INTENT_STATUS_ACTIVE_MODIFIED,
}

// TrainingIntentStatuses are the intents a retrain makes live.
var TrainingIntentStatuses = []string{
	INTENT_STATUS_IN_TRAINING,
	INTENT_STATUS_ACTIVE,
}

// PendingDeployStatuses move to in_training when a retrain starts.
var PendingDeployStatuses = []string{
	INTENT_STATUS_TO_DEPLOY,
	INTENT_STATUS_ACTIVE_MODIFIED,
}

// InboxStatusForConfidence maps an NLU confidence to the status of a new inbox row.
func InboxStatusForConfidence(confidence float64) string {
	switch {
	case confidence >= CONFIDENCE_CONFIRMED:
		return INBOX_STATUS_CONFIRMED
	case confidence >= CONFIDENCE_TO_VERIFY:
		return INBOX_STATUS_TO_VERIFY
	default:
		return INBOX_STATUS_PENDING
	}
}

// IntentStatusAfterEdit returns the status of an intent whose content was edited by hand.
func IntentStatusAfterEdit(current string) string {
	switch current {
	case INTENT_STATUS_ACTIVE, INTENT_STATUS_IN_TRAINING:
		// an in_training intent edited mid run must not be promoted with the content the model was built from
		return INTENT_STATUS_ACTIVE_MODIFIED
	case INTENT_STATUS_TO_ARCHIVE, INTENT_STATUS_ARCHIVED, "":
		return INTENT_STATUS_TO_DEPLOY
	}
	return current
}

func IsIntentStatus(status string) bool {
	switch status {
	case INTENT_STATUS_TO_DEPLOY, INTENT_STATUS_ACTIVE, INTENT_STATUS_ACTIVE_MODIFIED,
		INTENT_STATUS_IN_TRAINING, INTENT_STATUS_TO_ARCHIVE, INTENT_STATUS_ARCHIVED:
		return true
	}
	return false
}

func IsInboxStatus(status string) bool {
	switch status {
	case INBOX_STATUS_PENDING, INBOX_STATUS_TO_VERIFY, INBOX_STATUS_CONFIRMED, INBOX_STATUS_ARCHIVED:
		return true
	}
	return IsFeedbackStatus(status)
}

func IsFeedbackStatus(status string) bool {
	switch status {
	case FEEDBACK_STATUS_RELEVANT, FEEDBACK_STATUS_WRONG, FEEDBACK_STATUS_OFF_TOPIC:
		return true
	}
	return false
}

// CanTransitionInbox tells whether an inbox row in status from may move to status to.
// Archived rows are final; everything can be archived.
func CanTransitionInbox(from, to string) bool {
	if !IsInboxStatus(to) {
		return false
	}
	if from == INBOX_STATUS_ARCHIVED {
		return false
	}
	if to == INBOX_STATUS_PENDING || to == INBOX_STATUS_TO_VERIFY {
		return from == INBOX_STATUS_PENDING || from == INBOX_STATUS_TO_VERIFY
	}
	return true
}
