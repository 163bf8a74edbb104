package handler

import (
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/wb-go/wbf/ginext"
)

func NewRouter(reminderHandler *ReminderHandler) *ginext.Engine {
	router := ginext.New("release")
	router.Use(MetricsMiddleware)

	router.POST("/reminders", reminderHandler.CreateReminder)
	router.GET("/reminders", reminderHandler.ListReminders)
	router.GET("/reminders/:id", reminderHandler.GetReminder)
	router.PUT("/reminders/:id", reminderHandler.UpdateReminder)
	router.DELETE("/reminders/:id", reminderHandler.DeleteReminder)
	router.POST("/reminders/:id/snooze", reminderHandler.SnoozeReminder)
	router.POST("/reminders/:id/trigger", reminderHandler.MarkTriggered)

	metrics := promhttp.Handler()
	router.GET("/metrics", func(c *ginext.Context) {
		metrics.ServeHTTP(c.Writer, c.Request)
	})
	return router
}
