package domain

import "time"

type CompletionJobStatus string

const (
	JobStatusPending    CompletionJobStatus = "PENDING"
	JobStatusProcessing CompletionJobStatus = "PROCESSING"
	JobStatusDone       CompletionJobStatus = "DONE"
	JobStatusFailed     CompletionJobStatus = "FAILED"
)

// CompletionJob — долговечная единица работы «завершить сертификацию продукта».
// Машина состояний: PENDING -> PROCESSING -> {DONE | FAILED}.
// FAILED -> PENDING допускается только явной повторной постановкой.
// На продукт одновременно существует не более одного нетерминального задания
// (частичный уникальный индекс в БД).
type CompletionJob struct {
	ID        string
	ProductID int64
	Status    CompletionJobStatus
	Attempts  int
	LastError *string
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// Terminal сообщает, находится ли задание в терминальном состоянии.
func (j *CompletionJob) Terminal() bool {
	return j.Status == JobStatusDone || j.Status == JobStatusFailed
}
