package websocket

import "github.com/rs/zerolog/log"

// Feed topics clients can subscribe to.
const (
	TopicPosts  = "posts"
	TopicEvents = "events"
)

// Hub maintains the set of active clients and broadcasts activity messages
// to them. All client and subscription state is owned by the Run goroutine;
// every mutation is routed through a channel.
type Hub struct {
	// Registered clients.
	clients map[*Client]bool

	// Inbound messages for global broadcast.
	Broadcast chan []byte

	// Register requests from the clients.
	Register chan *Client

	// Unregister requests from clients.
	Unregister chan *Client

	subscribe      chan subscription
	unsubscribe    chan subscription
	topicBroadcast chan topicMessage
	reply          chan clientMessage

	// A map of topics to the set of clients subscribed to each.
	subscriptions map[string]map[*Client]bool
}

type subscription struct {
	client *Client
	topic  string
}

type topicMessage struct {
	topic   string
	payload []byte
}

type clientMessage struct {
	client  *Client
	payload []byte
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		Broadcast:      make(chan []byte),
		Register:       make(chan *Client),
		Unregister:     make(chan *Client),
		subscribe:      make(chan subscription),
		unsubscribe:    make(chan subscription),
		topicBroadcast: make(chan topicMessage, 64),
		reply:          make(chan clientMessage),
		clients:        make(map[*Client]bool),
		subscriptions:  make(map[string]map[*Client]bool),
	}
}

// Run starts the Hub's message processing loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.clients[client] = true
			log.Info().Int("total_clients", len(h.clients)).Msg("Feed client connected")
			// If the client asked for a topic on connect, subscribe it now.
			if client.Topic != "" {
				h.addSubscription(client, client.Topic)
			}
		case client := <-h.Unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
				h.removeSubscription(client)
				log.Info().Int("total_clients", len(h.clients)).Msg("Feed client disconnected")
			}
		case sub := <-h.subscribe:
			h.addSubscription(sub.client, sub.topic)
		case sub := <-h.unsubscribe:
			if subs, ok := h.subscriptions[sub.topic]; ok {
				delete(subs, sub.client)
				if len(subs) == 0 {
					delete(h.subscriptions, sub.topic)
				}
			}
		case msg := <-h.reply:
			// Only the run loop may write to Send; a client evicted in the
			// meantime has a closed channel and is skipped.
			if _, ok := h.clients[msg.client]; ok {
				select {
				case msg.client.Send <- msg.payload:
				default:
				}
			}
		case msg := <-h.topicBroadcast:
			for client := range h.subscriptions[msg.topic] {
				select {
				case client.Send <- msg.payload:
				default:
					close(client.Send)
					delete(h.clients, client)
					h.removeSubscription(client)
				}
			}
		case message := <-h.Broadcast:
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					close(client.Send)
					delete(h.clients, client)
					h.removeSubscription(client)
				}
			}
		}
	}
}

// BroadcastTo sends a message to all clients subscribed to a topic. The send
// is buffered and non-blocking so a slow feed never stalls a request.
func (h *Hub) BroadcastTo(topic string, message []byte) {
	select {
	case h.topicBroadcast <- topicMessage{topic: topic, payload: message}:
	default:
		log.Warn().Str("topic", topic).Msg("Dropping feed message, broadcast queue full")
	}
}

// SendTo delivers a message to a single client through the run loop, so it
// is safe to call from the client's read goroutine.
func (h *Hub) SendTo(client *Client, message []byte) {
	h.reply <- clientMessage{client: client, payload: message}
}

// Subscribe adds the client to a topic from outside the run loop.
func (h *Hub) Subscribe(client *Client, topic string) {
	h.subscribe <- subscription{client: client, topic: topic}
}

// Unsubscribe removes the client from a topic from outside the run loop.
func (h *Hub) Unsubscribe(client *Client, topic string) {
	h.unsubscribe <- subscription{client: client, topic: topic}
}

func (h *Hub) addSubscription(client *Client, topic string) {
	if h.subscriptions[topic] == nil {
		h.subscriptions[topic] = make(map[*Client]bool)
	}
	h.subscriptions[topic][client] = true
}

func (h *Hub) removeSubscription(client *Client) {
	for topic, subs := range h.subscriptions {
		if _, ok := subs[client]; ok {
			delete(subs, client)
			if len(subs) == 0 {
				delete(h.subscriptions, topic)
			}
		}
	}
}
