package service

import (
	"log"
	"sync"
)

// bulkEmailWorkers bounds concurrent SMTP connections so a large batch
// does not trip provider rate limits.
const bulkEmailWorkers = 5

type BulkEmailItem struct {
	To        string
	Subject   string
	PlainBody string
	HTMLBody  string
}

type BulkEmailReport struct {
	Total   int      `json:"total"`
	Success int      `json:"success"`
	Failed  []string `json:"failed,omitempty"`
}

// BulkEmailService pushes a batch of messages through a bounded worker
// pool and reports how many actually went out.
type BulkEmailService struct {
	Email *EmailService
}

func NewBulkEmailService(email *EmailService) *BulkEmailService {
	return &BulkEmailService{Email: email}
}

func (b *BulkEmailService) SendBatch(items []BulkEmailItem) BulkEmailReport {
	report := BulkEmailReport{Total: len(items)}
	if len(items) == 0 {
		return report
	}

	jobs := make(chan BulkEmailItem)
	var mu sync.Mutex
	var wg sync.WaitGroup

	workers := bulkEmailWorkers
	if len(items) < workers {
		workers = len(items)
	}

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range jobs {
				err := b.Email.Send(item.To, item.Subject, item.PlainBody, item.HTMLBody)
				mu.Lock()
				if err != nil {
					report.Failed = append(report.Failed, item.To)
				} else {
					report.Success++
				}
				mu.Unlock()
			}
		}()
	}

	for _, item := range items {
		jobs <- item
	}
	close(jobs)
	wg.Wait()

	log.Printf("[INFO] bulk email batch done: %d/%d sent", report.Success, report.Total)
	return report
}
