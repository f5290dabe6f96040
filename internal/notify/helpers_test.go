package notify

import "github.com/BruksfildServices01/headspa-scheduler/internal/config"

func configSMTP(host string) config.SMTP {
	return config.SMTP{Host: host, Port: 587, From: "spa@example.com"}
}
