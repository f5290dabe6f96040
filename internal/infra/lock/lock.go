package lock

import domain "github.com/BruksfildServices01/headspa-scheduler/internal/domain/appointment"

var ErrLockNotAcquired = domain.ErrLockNotAcquired

func dateKey(date string) string {
	return "lock:appointments:date:" + date
}
