package live

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/homeplate/homeplate-app/models"
	"github.com/homeplate/homeplate-app/utils"
)

// Event types pushed over the websocket feeds.
const (
	EventOrderUpdate  = "order_update"
	EventNewOrder     = "new_order"
	EventNotification = "notification"
	EventChatMessage  = "chat_message"
	EventSystem       = "system"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

type subscription struct {
	userID  uint // feed connections
	orderID uint // chat thread connections
}

// Hub tracks live subscribers. A client either follows its own user feed
// (orders + notifications) or a single order's chat thread; fan-out walks
// the registry under the mutex, mirroring the kitchen-display hub this
// replaced.
type Hub struct {
	clients map[*websocket.Conn]subscription
	mutex   sync.Mutex
}

var hub = Hub{
	clients: make(map[*websocket.Conn]subscription),
}

// RegisterUserClient subscribes a connection to one user's feed.
func RegisterUserClient(conn *websocket.Conn, userID uint) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	hub.clients[conn] = subscription{userID: userID}
}

// RegisterOrderClient subscribes a connection to one order's chat thread.
func RegisterOrderClient(conn *websocket.Conn, orderID uint) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	hub.clients[conn] = subscription{orderID: orderID}
}

// UnregisterClient drops the connection; callers invoke it on teardown so
// listeners do not leak.
func UnregisterClient(conn *websocket.Conn) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	delete(hub.clients, conn)
	conn.Close()
}

// PushOrderUpdate delivers an order snapshot to both parties' feeds.
func PushOrderUpdate(order models.Order) {
	push(Message{Event: EventOrderUpdate, Data: order}, func(s subscription) bool {
		return s.userID == order.CustomerID || s.userID == order.CookID
	})
}

// PushNewOrder tells the cook's feed about a freshly placed order.
func PushNewOrder(order models.Order) {
	push(Message{Event: EventNewOrder, Data: order}, func(s subscription) bool {
		return s.userID == order.CookID
	})
}

// PushNotification delivers a persisted notification to its recipient.
func PushNotification(notif models.Notification) {
	push(Message{Event: EventNotification, Data: notif}, func(s subscription) bool {
		return s.userID == notif.UserID
	})
}

// PushChatMessage delivers a chat message to the order's thread subscribers.
func PushChatMessage(msg models.ChatMessage) {
	push(Message{Event: EventChatMessage, Data: msg}, func(s subscription) bool {
		return s.orderID == msg.OrderID
	})
}

// PushSystemMessage delivers an ad-hoc system event to one user's feed.
func PushSystemMessage(userID uint, data interface{}) {
	push(Message{Event: EventSystem, Data: data}, func(s subscription) bool {
		return s.userID == userID
	})
}

func push(msg Message, match func(subscription) bool) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()

	data, err := json.Marshal(msg)
	if err != nil {
		utils.ErrorLogger.Printf("live: marshal %s event: %v", msg.Event, err)
		return
	}

	for conn, sub := range hub.clients {
		if !match(sub) {
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			utils.ErrorLogger.Printf("live: write %s event: %v", msg.Event, err)
		}
	}
}
