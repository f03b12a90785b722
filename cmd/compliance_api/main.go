// Compliance API evaluates field test submissions and broadcasts every
// computed result to websocket subscribers.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/ratertools/air_compliance_engine/pkg/blowerdoor"
	"github.com/ratertools/air_compliance_engine/pkg/codelimits"
	"github.com/ratertools/air_compliance_engine/pkg/config"
	"github.com/ratertools/air_compliance_engine/pkg/ductleakage"
	"github.com/ratertools/air_compliance_engine/pkg/gauge"
	"github.com/ratertools/air_compliance_engine/pkg/pathing"
	"github.com/ratertools/air_compliance_engine/pkg/regression"
	"github.com/ratertools/air_compliance_engine/pkg/resultfeed"
	"github.com/ratertools/air_compliance_engine/pkg/validation"
	"github.com/ratertools/air_compliance_engine/pkg/ventilation"
	"github.com/ratertools/air_compliance_engine/pkg/ventunit"
)

var (
	gaugeReader *gauge.Reader
	limitsTable *codelimits.Table
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins in development
	},
}

// ws clients for broadcasting evaluation envelopes
var (
	wsClients                   = make(map[*websocket.Conn]bool)
	wsClientsMutex sync.RWMutex = sync.RWMutex{}
)

func main() {
	// Load config
	if err := config.LoadComplianceAPIConfig(); err != nil {
		log.Fatalf("Failed to load compliance API config: %v", err)
	}

	// Code limits are immutable once loaded; a missing table is fatal, a
	// missing entry at evaluation time is a per-request error.
	var err error
	limitsTable, err = codelimits.Load(pathing.GetCodeLimitsPath())
	if err != nil {
		log.Fatalf("Failed to load code limit tables: %v", err)
	}

	// Start gauge reader; the API stays useful without a gauge attached.
	gaugeReader = gauge.NewReader(
		config.ActiveComplianceAPIConfig.GaugeSerialDevice,
		config.ActiveComplianceAPIConfig.GaugeBaudrate,
	)
	gaugeReader.StartReading(
		func(frame *gauge.Frame) {
			BroadcastGaugeFrame(frame)
		},
		func(err error) {
			if err != nil {
				log.Printf("Gauge reader stopped: %v", err)
				log.Println("API will run but no live gauge data will be available")
			}
		},
	)

	// Setup HTTP handlers
	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		response := map[string]string{
			"message": "Air Compliance Engine API",
			"status":  "running",
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	})

	http.HandleFunc("/evaluate/blower-door", handleEvaluateBlowerDoor)
	http.HandleFunc("/evaluate/ventilation", handleEvaluateVentilation)
	http.HandleFunc("/evaluate/duct-leakage", handleEvaluateDuctLeakage)

	http.HandleFunc("/gauge/latest", func(w http.ResponseWriter, r *http.Request) {
		frame := gaugeReader.GetLatestFrame()
		w.Header().Set("Content-Type", "application/json")
		if frame == nil {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{
				"error": "No gauge frames available yet",
			})
			return
		}

		json.NewEncoder(w).Encode(frame)
	})

	// May be fast or slow depending on cached response from the unit.
	http.HandleFunc("/ventunit", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		airflow, err := ventunit.ReadAirflow()
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{
				"error": err.Error(),
			})
			return
		}
		json.NewEncoder(w).Encode(airflow)
	})

	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("WebSocket upgrade error: %v", err)
			return
		}

		AddWebSocketClient(conn)

		// Keep connection alive
		for {
			_, _, err := conn.ReadMessage()
			if err != nil {
				RemoveWebSocketClient(conn)
				break
			}
		}
	})

	listener := fmt.Sprintf("%s:%d", config.ActiveComplianceAPIConfig.ListenAddress, config.ActiveComplianceAPIConfig.ListenPort)

	log.Printf("Starting Air Compliance Engine API on %s", listener)
	log.Fatal(http.ListenAndServe(listener, nil))
}

func handleEvaluateBlowerDoor(w http.ResponseWriter, r *http.Request) {
	evaluate(w, r, resultfeed.KindBlowerDoor, func(body []byte) (any, bool, error) {
		var test blowerdoor.Test
		if err := json.Unmarshal(body, &test); err != nil {
			return nil, false, validation.Errorf("body", "malformed test json: %v", err)
		}
		result, err := blowerdoor.Evaluate(&test, limitsTable)
		if err != nil {
			return nil, false, err
		}
		return result, result.ComplianceStatus == blowerdoor.StatusCompliant, nil
	})
}

func handleEvaluateVentilation(w http.ResponseWriter, r *http.Request) {
	evaluate(w, r, resultfeed.KindVentilation, func(body []byte) (any, bool, error) {
		var test ventilation.Test
		if err := json.Unmarshal(body, &test); err != nil {
			return nil, false, validation.Errorf("body", "malformed test json: %v", err)
		}
		result, err := ventilation.Evaluate(&test)
		if err != nil {
			return nil, false, err
		}
		return result, result.OverallCompliant, nil
	})
}

func handleEvaluateDuctLeakage(w http.ResponseWriter, r *http.Request) {
	evaluate(w, r, resultfeed.KindDuctLeakage, func(body []byte) (any, bool, error) {
		var test ductleakage.Test
		if err := json.Unmarshal(body, &test); err != nil {
			return nil, false, validation.Errorf("body", "malformed test json: %v", err)
		}
		result, err := ductleakage.Evaluate(&test, limitsTable)
		if err != nil {
			return nil, false, err
		}
		// Duct verdicts stay independent; the envelope flag is only the
		// broad "anything to retest" signal for the collector.
		return result, result.MeetsCodeTDL && result.MeetsCodeDLO, nil
	})
}

// evaluate runs one evaluator over the request body, answers the caller and
// broadcasts the envelope to websocket subscribers.
func evaluate(
	w http.ResponseWriter,
	r *http.Request,
	kind resultfeed.TestKind,
	run func(body []byte) (result any, compliant bool, err error),
) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		json.NewEncoder(w).Encode(map[string]string{"error": "POST required"})
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "failed to read body"})
		return
	}

	result, compliant, err := run(body)
	if err != nil {
		writeEvaluationError(w, err)
		return
	}

	resultJson, err := json.Marshal(result)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "failed to encode result"})
		return
	}

	envelope := &resultfeed.Envelope{
		ID:         uuid.NewString(),
		Kind:       kind,
		RecordedAt: time.Now().UTC().Format(time.RFC3339),
		Test:       body,
		Result:     resultJson,
		Compliant:  compliant,
	}

	BroadcastToWebSockets(envelope)
	json.NewEncoder(w).Encode(envelope)
}

func writeEvaluationError(w http.ResponseWriter, err error) {
	switch {
	case validation.IsValidationError(err):
		w.WriteHeader(http.StatusBadRequest)
	case errors.Is(err, regression.ErrInsufficientData):
		w.WriteHeader(http.StatusUnprocessableEntity)
	case errors.Is(err, codelimits.ErrConfigurationMissing):
		w.WriteHeader(http.StatusInternalServerError)
	default:
		w.WriteHeader(http.StatusInternalServerError)
	}
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

func BroadcastToWebSockets(envelope *resultfeed.Envelope) {
	broadcastToClients(envelope.ToJsonBytes())
}

// BroadcastGaugeFrame relays a live manometer frame to websocket subscribers,
// kind-tagged so collectors can tell it apart from evaluation envelopes.
func BroadcastGaugeFrame(frame *gauge.Frame) {
	message := &resultfeed.GaugeFrameMessage{
		Kind:  resultfeed.KindGaugeFrame,
		Frame: frame.ToJsonBytes(),
	}
	broadcastToClients(message.ToJsonBytes())
}

func broadcastToClients(data []byte) {
	if data == nil {
		return
	}

	wsClientsMutex.RLock()
	clients := make([]*websocket.Conn, 0, len(wsClients))
	for client := range wsClients {
		clients = append(clients, client)
	}
	wsClientsMutex.RUnlock()

	for _, client := range clients {
		if err := client.WriteMessage(websocket.TextMessage, data); err != nil {
			RemoveWebSocketClient(client)
		}
	}
}

func AddWebSocketClient(conn *websocket.Conn) {
	wsClientsMutex.Lock()
	wsClients[conn] = true
	wsClientsMutex.Unlock()
}

func RemoveWebSocketClient(conn *websocket.Conn) {
	wsClientsMutex.Lock()
	delete(wsClients, conn)
	wsClientsMutex.Unlock()
	conn.Close()
}
