package domain

// Delivery is a one-shot scheduled arrival of an item. Deliveries live in the
// session's pending set and are removed exactly once, when their arrival time
// has passed.
type Delivery struct {
	ID          string      `json:"id"`
	ItemName    string      `json:"itemName"`
	ArrivalTime VirtualTime `json:"arrivalTime"`
}

// DueDeliveries splits pending into deliveries whose arrival time has passed
// and those still outstanding. Order within each slice follows the input.
func DueDeliveries(pending []Delivery, now VirtualTime) (arrived, remaining []Delivery) {
	for _, d := range pending {
		if d.ArrivalTime <= now {
			arrived = append(arrived, d)
		} else {
			remaining = append(remaining, d)
		}
	}
	return arrived, remaining
}
