package rabbitmq

// QueueConfig — очередь и шаблон ключа маршрутизации, по которому она привязана.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// Ключи маршрутизации доменных событий.
const (
	RoutingReservationCreated   = "reservation.created"
	RoutingReservationCancelled = "reservation.cancelled"
	RoutingReservationRated     = "reservation.rated"
	RoutingScheduleChangeNew    = "schedule_change.created"
	RoutingScheduleChangeReview = "schedule_change.reviewed"
	RoutingMembershipPurchased  = "membership.purchased"
	RoutingMembershipExtended   = "membership.extended"
)

// GetEventQueues возвращает очереди, которые читает notifier. События
// reservation.* ни к одной очереди не привязаны и отбрасываются обменником.
func GetEventQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "fitpoint.schedule_changes", RoutingKey: "schedule_change.*"},
		{QueueName: "fitpoint.memberships", RoutingKey: "membership.*"},
	}
}
