package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/posentinel/sentinel/internal/dates"
	"github.com/posentinel/sentinel/internal/model"
	"github.com/posentinel/sentinel/internal/pipeline"
	"github.com/posentinel/sentinel/internal/store"
	"github.com/posentinel/sentinel/internal/urgency"
)

const (
	defaultModel     = "claude-sonnet-4-5-20250929"
	defaultMaxTokens = 1024
	apiURL           = "https://api.anthropic.com/v1/messages"
	apiVersion       = "2023-06-01"
)

// reportItemLimit caps how many orders feed the reminder draft prompt.
const reportItemLimit = 15

// StreamChunk represents a piece of the AI response being streamed back.
type StreamChunk struct {
	Text string
	Done bool
}

// Assistant is the AI assistant service that communicates with the Claude API,
// manages conversation context, and handles tool use for order queries.
type Assistant struct {
	apiKey    string
	store     store.Store
	engine    *urgency.Engine
	context   *ConversationContext
	model     string
	maxTokens int
	client    *http.Client
	now       func() time.Time
}

// New creates a new AI assistant with the given configuration.
func New(
	apiKey string,
	s store.Store,
	engine *urgency.Engine,
	modelName string,
	maxTokens int,
) *Assistant {
	if modelName == "" {
		modelName = defaultModel
	}
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	return &Assistant{
		apiKey:    apiKey,
		store:     s,
		engine:    engine,
		context:   NewConversationContext(),
		model:     modelName,
		maxTokens: maxTokens,
		client:    &http.Client{},
		now:       time.Now,
	}
}

// Reset clears the conversation history.
func (a *Assistant) Reset() {
	a.context.Reset()
}

// SendMessage sends a user message to the Claude API and returns a channel
// that receives response chunks. The channel is closed when the response
// is complete.
func (a *Assistant) SendMessage(
	ctx context.Context,
	userMsg string,
) (<-chan StreamChunk, error) {
	a.context.AddMessage(RoleUser, userMsg, nil)

	ch := make(chan StreamChunk, 16)

	go func() {
		defer close(ch)
		a.processMessage(ctx, ch)
	}()

	return ch, nil
}

// processMessage handles the API call loop, including tool use iterations.
func (a *Assistant) processMessage(ctx context.Context, ch chan<- StreamChunk) {
	maxToolIterations := 5

	for i := 0; i < maxToolIterations; i++ {
		resp, err := a.callAPI(ctx)
		if err != nil {
			ch <- StreamChunk{
				Text: fmt.Sprintf("Error: %v", err),
				Done: true,
			}
			return
		}

		// Process content blocks from the response
		var textParts []string
		var toolUseBlocks []apiToolUse
		hasToolUse := false

		for _, block := range resp.Content {
			switch block.Type {
			case "text":
				textParts = append(textParts, block.Text)
			case "tool_use":
				hasToolUse = true
				toolUseBlocks = append(toolUseBlocks, apiToolUse{
					ID:    block.ID,
					Name:  block.Name,
					Input: block.Input,
				})
			}
		}

		// Send any text content to the UI
		if len(textParts) > 0 {
			combined := strings.Join(textParts, "")
			ch <- StreamChunk{Text: combined, Done: !hasToolUse}

			if !hasToolUse {
				a.context.AddMessage(RoleAssistant, combined, nil)
				return
			}
		}

		if !hasToolUse {
			if len(textParts) == 0 {
				ch <- StreamChunk{Text: "", Done: true}
			}
			return
		}

		// Record the assistant's response (with tool use) in context
		assistantContent, err := json.Marshal(resp.Content)
		if err != nil {
			ch <- StreamChunk{
				Text: fmt.Sprintf("Error encoding response: %v", err),
				Done: true,
			}
			return
		}
		a.context.AddMessage(RoleAssistant, string(assistantContent), nil)

		// Process each tool use and build tool results
		var toolResults []apiContentBlock
		for _, tu := range toolUseBlocks {
			result := a.executeToolUse(ctx, tu)
			toolResults = append(toolResults, apiContentBlock{
				Type:      "tool_result",
				ToolUseID: tu.ID,
				Content:   result,
			})
		}

		// Add tool results as a user message
		toolResultsJSON, err := json.Marshal(toolResults)
		if err != nil {
			ch <- StreamChunk{
				Text: fmt.Sprintf("Error encoding tool results: %v", err),
				Done: true,
			}
			return
		}
		a.context.AddMessage(RoleUser, string(toolResultsJSON), nil)
	}

	ch <- StreamChunk{
		Text: "\n\n(Reached maximum tool use iterations)",
		Done: true,
	}
}

// Draft is a generated reminder email.
type Draft struct {
	Subject string
	Body    string
}

var (
	subjectRe = regexp.MustCompile(`(?i)SUBJECT:\s*(.*)`)
	bodyRe    = regexp.MustCompile(`(?is)BODY:\s*(.*)`)
)

// CriticalForReport selects the orders worth escalating in a reminder
// email: effective status Overdue or tier in the critical set, skipping
// delivered orders, capped at reportItemLimit.
func CriticalForReport(
	records []urgency.EvaluatedOrder,
	criticalTiers map[string]bool,
) []urgency.EvaluatedOrder {
	var critical []urgency.EvaluatedOrder
	for _, r := range records {
		if r.Status == model.StatusDelivered {
			continue
		}
		if r.Status != model.StatusOverdue && !criticalTiers[r.Urgency] {
			continue
		}
		critical = append(critical, r)
		if len(critical) == reportItemLimit {
			break
		}
	}
	return critical
}

// DraftReminder asks the model for a SUBJECT:/BODY: email report over
// the given critical orders. Any failure yields a static fallback
// draft, never an error.
func (a *Assistant) DraftReminder(
	ctx context.Context,
	critical []urgency.EvaluatedOrder,
	recipient string,
) Draft {
	type reportItem struct {
		PO     string `json:"po"`
		Vendor string `json:"vendor"`
		Age    int    `json:"age"`
		Tier   string `json:"tier"`
		Status string `json:"status"`
	}

	items := make([]reportItem, 0, len(critical))
	for _, r := range critical {
		items = append(items, reportItem{
			PO:     r.PONumber,
			Vendor: r.Vendor,
			Age:    r.Age,
			Tier:   r.Urgency,
			Status: string(r.Status),
		})
	}

	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return a.fallbackDraft()
	}

	var sb strings.Builder
	sb.WriteString("Draft a professional business email report.\n")
	fmt.Fprintf(&sb, "Recipient: %s\n", recipient)
	sb.WriteString("Context: a list of aged and critical purchase orders that require immediate attention.\n\n")
	fmt.Fprintf(&sb, "Purchase order data (JSON): %s\n\n", itemsJSON)
	sb.WriteString("Requirements:\n")
	fmt.Fprintf(&sb, "1. Subject line: start with [URGENT PO REPORT] and include today's date (%s).\n", dates.Format(a.now()))
	sb.WriteString("2. Content: a concise, bulleted summary of the most critical orders by age tier.\n")
	sb.WriteString("3. Tone: collaborative yet urgent.\n")
	sb.WriteString("4. Closing: \"Best regards, Sentinel\"\n\n")
	sb.WriteString("Output format:\n")
	sb.WriteString("SUBJECT: [the subject line]\n")
	sb.WriteString("BODY: [the email content]")

	text, err := a.complete(ctx, sb.String())
	if err != nil || strings.TrimSpace(text) == "" {
		return a.fallbackDraft()
	}

	draft := a.fallbackDraft()
	if m := subjectRe.FindStringSubmatch(text); m != nil {
		draft.Subject = strings.TrimSpace(m[1])
	}
	if m := bodyRe.FindStringSubmatch(text); m != nil {
		draft.Body = strings.TrimSpace(m[1])
	} else {
		draft.Body = strings.TrimSpace(text)
	}

	return draft
}

func (a *Assistant) fallbackDraft() Draft {
	return StaticDraft(a.now())
}

// StaticDraft is the canned reminder email used when no assistant is
// configured or drafting fails.
func StaticDraft(now time.Time) Draft {
	return Draft{
		Subject: fmt.Sprintf("Daily PO Urgency Report - %s", dates.Format(now)),
		Body:    "Please find attached the list of aged purchase orders requiring your review.",
	}
}

// complete sends a single prompt outside the chat conversation and
// returns the concatenated text blocks of the reply.
func (a *Assistant) complete(ctx context.Context, prompt string) (string, error) {
	reqBody := apiRequest{
		Model:     a.model,
		MaxTokens: a.maxTokens,
		Messages: []apiMessage{
			{
				Role:    string(RoleUser),
				Content: []apiContentBlock{{Type: "text", Text: prompt}},
			},
		},
	}

	resp, err := a.send(ctx, reqBody)
	if err != nil {
		return "", err
	}

	var textParts []string
	for _, block := range resp.Content {
		if block.Type == "text" {
			textParts = append(textParts, block.Text)
		}
	}
	return strings.Join(textParts, ""), nil
}

// callAPI makes a single request to the Claude Messages API with the
// full conversation context and tool definitions.
func (a *Assistant) callAPI(ctx context.Context) (*apiResponse, error) {
	reqBody := apiRequest{
		Model:     a.model,
		MaxTokens: a.maxTokens,
		System:    a.buildSystemPrompt(ctx),
		Messages:  a.buildAPIMessages(),
		Tools:     toolDefinitions(),
	}

	return a.send(ctx, reqBody)
}

func (a *Assistant) send(ctx context.Context, reqBody apiRequest) (*apiResponse, error) {
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, apiURL, bytes.NewReader(bodyBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", a.apiKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling Claude API: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiErrorResponse
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error.Message != "" {
			return nil, fmt.Errorf("API error (%d): %s", resp.StatusCode, apiErr.Error.Message)
		}
		return nil, fmt.Errorf("API error (%d): %s", resp.StatusCode, string(respBody))
	}

	var result apiResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return &result, nil
}

// buildSystemPrompt constructs the system prompt with order context.
func (a *Assistant) buildSystemPrompt(ctx context.Context) string {
	var sb strings.Builder

	sb.WriteString("You are a purchase order tracking assistant. ")
	sb.WriteString("You can search and summarize the tracked purchase orders, ")
	sb.WriteString("their urgency tiers, and their ages.\n\n")

	summary := a.buildOrderSummary(ctx)
	if summary != "" {
		sb.WriteString("Current order data:\n")
		sb.WriteString(summary)
		sb.WriteString("\n\n")
	}

	sb.WriteString("You have access to these tools:\n")
	sb.WriteString("- search_orders: Search orders by free text, status, ")
	sb.WriteString("urgency tier, or item code\n")
	sb.WriteString("- get_order_detail: Get full details for a specific order ")
	sb.WriteString("by its ID\n\n")

	sb.WriteString("IMPORTANT: You CANNOT perform write operations ")
	sb.WriteString("(creating, editing, or deleting orders). ")
	sb.WriteString("If asked to modify data, politely explain that you can ")
	sb.WriteString("only search and summarize, and point at the keyboard ")
	sb.WriteString("shortcuts instead:\n")
	sb.WriteString("- Press 'n' in the order list to create an order\n")
	sb.WriteString("- Press 'e' on a selected order to edit it\n")
	sb.WriteString("- Press 'x' on a selected order to delete it\n\n")

	sb.WriteString("Focus on high-urgency and overdue orders when the user ")
	sb.WriteString("does not specify otherwise. When referencing orders, ")
	sb.WriteString("include their PO number and vendor. ")
	sb.WriteString("Keep responses concise and focused.")

	return sb.String()
}

// buildOrderSummary queries the store for order counts by status and tier.
func (a *Assistant) buildOrderSummary(ctx context.Context) string {
	orders, err := a.store.GetOrders(ctx)
	if err != nil || len(orders) == 0 {
		return "No orders available."
	}

	records := a.engine.EvaluateAll(orders, a.now())

	statusCounts := make(map[model.Status]int)
	tierCounts := make(map[string]int)
	var totalValue float64

	for _, r := range records {
		statusCounts[r.Status]++
		tierCounts[r.Urgency]++
		totalValue += r.TotalAmount
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Total orders: %d (pipeline value %.2f)\n", len(records), totalValue)

	sb.WriteString("By status: ")
	first := true
	for _, s := range model.AllStatuses {
		if statusCounts[s] == 0 {
			continue
		}
		if !first {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s=%d", s, statusCounts[s])
		first = false
	}
	sb.WriteString("\n")

	sb.WriteString("By urgency: ")
	first = true
	for _, label := range a.engine.Table().Labels() {
		if tierCounts[label] == 0 {
			continue
		}
		if !first {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s=%d", label, tierCounts[label])
		first = false
	}

	return sb.String()
}

// buildAPIMessages converts the conversation context into the Claude API
// message format. Messages with JSON content blocks (from tool use) are
// sent as structured content; plain text messages are sent as-is.
func (a *Assistant) buildAPIMessages() []apiMessage {
	contextMsgs := a.context.GetMessages()
	var messages []apiMessage

	for _, msg := range contextMsgs {
		// Check if this is a structured content message (tool use/results)
		if isJSONArray(msg.Content) {
			var blocks []apiContentBlock
			if err := json.Unmarshal(
				[]byte(msg.Content), &blocks,
			); err == nil {
				messages = append(messages, apiMessage{
					Role:    string(msg.Role),
					Content: blocks,
				})
				continue
			}
		}

		messages = append(messages, apiMessage{
			Role: string(msg.Role),
			Content: []apiContentBlock{
				{Type: "text", Text: msg.Content},
			},
		})
	}

	return messages
}

// executeToolUse runs a tool requested by the AI and returns the result.
func (a *Assistant) executeToolUse(
	ctx context.Context,
	tu apiToolUse,
) string {
	// Read-only guard: reject any write-like tool names
	writeTools := map[string]bool{
		"create_order": true,
		"update_order": true,
		"delete_order": true,
		"import_file":  true,
	}
	if writeTools[tu.Name] {
		return `{"error": "Write operations are not permitted. ` +
			`Please use the keyboard shortcuts instead: ` +
			`'n' to create, 'e' to edit, 'x' to delete."}`
	}

	switch tu.Name {
	case "search_orders":
		return a.handleSearchOrders(ctx, tu.Input)
	case "get_order_detail":
		return a.handleGetOrderDetail(ctx, tu.Input)
	default:
		return fmt.Sprintf(
			`{"error": "Unknown tool: %s"}`, tu.Name,
		)
	}
}

// handleSearchOrders evaluates the full order set and filters it with
// the provided search parameters.
func (a *Assistant) handleSearchOrders(
	ctx context.Context,
	input json.RawMessage,
) string {
	var params struct {
		Query    string `json:"query"`
		Status   string `json:"status"`
		Urgency  string `json:"urgency"`
		ItemCode string `json:"item_code"`
	}

	if err := json.Unmarshal(input, &params); err != nil {
		return fmt.Sprintf(`{"error": "Invalid parameters: %v"}`, err)
	}

	orders, err := a.store.GetOrders(ctx)
	if err != nil {
		return fmt.Sprintf(`{"error": "Search failed: %v"}`, err)
	}

	spec := pipeline.FilterSpec{Search: params.Query}
	if params.Status != "" {
		status := model.ParseStatus(params.Status)
		spec.Status = &status
	}
	if params.Urgency != "" {
		spec.Urgency = &params.Urgency
	}
	if params.ItemCode != "" {
		spec.ItemCode = &params.ItemCode
	}

	records := pipeline.Query(a.engine.EvaluateAll(orders, a.now()), spec)
	if len(records) > 20 {
		records = records[:20]
	}

	type orderSummary struct {
		ID          string  `json:"id"`
		PONumber    string  `json:"po_number"`
		Vendor      string  `json:"vendor"`
		Status      string  `json:"status"`
		Urgency     string  `json:"urgency"`
		Age         int     `json:"age"`
		DueDate     string  `json:"due_date"`
		TotalAmount float64 `json:"total_amount"`
	}

	summaries := make([]orderSummary, 0, len(records))
	for _, r := range records {
		summaries = append(summaries, orderSummary{
			ID:          r.ID,
			PONumber:    r.PONumber,
			Vendor:      r.Vendor,
			Status:      string(r.Status),
			Urgency:     r.Urgency,
			Age:         r.Age,
			DueDate:     dates.Display(r.DeliveryDate),
			TotalAmount: r.TotalAmount,
		})
	}

	result, err := json.Marshal(map[string]interface{}{
		"count":  len(summaries),
		"orders": summaries,
	})
	if err != nil {
		return fmt.Sprintf(`{"error": "Failed to encode results: %v"}`, err)
	}

	return string(result)
}

// handleGetOrderDetail retrieves full details for a specific order.
func (a *Assistant) handleGetOrderDetail(
	ctx context.Context,
	input json.RawMessage,
) string {
	var params struct {
		OrderID string `json:"order_id"`
	}

	if err := json.Unmarshal(input, &params); err != nil {
		return fmt.Sprintf(`{"error": "Invalid parameters: %v"}`, err)
	}

	if params.OrderID == "" {
		return `{"error": "order_id is required"}`
	}

	order, err := a.store.GetOrderByID(ctx, params.OrderID)
	if err != nil {
		return fmt.Sprintf(`{"error": "Order not found: %v"}`, err)
	}

	evaluated := a.engine.Evaluate(*order, a.now())

	type orderDetail struct {
		ID              string  `json:"id"`
		PONumber        string  `json:"po_number"`
		Vendor          string  `json:"vendor"`
		OrderDate       string  `json:"order_date"`
		ApproveDate     string  `json:"approve_date,omitempty"`
		DueDate         string  `json:"due_date"`
		Status          string  `json:"status"`
		Priority        string  `json:"priority"`
		Urgency         string  `json:"urgency"`
		Age             int     `json:"age"`
		TotalAmount     float64 `json:"total_amount"`
		ItemCode        string  `json:"item_code,omitempty"`
		UnitPrice       float64 `json:"unit_price,omitempty"`
		Currency        string  `json:"currency,omitempty"`
		Quantity        float64 `json:"quantity,omitempty"`
		UOM             string  `json:"uom,omitempty"`
		ItemDescription string  `json:"item_description,omitempty"`
		PendingQuantity float64 `json:"pending_quantity,omitempty"`
		Notes           string  `json:"notes,omitempty"`
	}

	detail := orderDetail{
		ID:              evaluated.ID,
		PONumber:        evaluated.PONumber,
		Vendor:          evaluated.Vendor,
		OrderDate:       dates.Display(evaluated.CreationDate),
		ApproveDate:     dates.Display(evaluated.ApproveDate),
		DueDate:         dates.Display(evaluated.DeliveryDate),
		Status:          string(evaluated.Status),
		Priority:        string(evaluated.Priority),
		Urgency:         evaluated.Urgency,
		Age:             evaluated.Age,
		TotalAmount:     evaluated.TotalAmount,
		ItemCode:        evaluated.ItemCode,
		UnitPrice:       evaluated.UnitPrice,
		Currency:        evaluated.Currency,
		Quantity:        evaluated.Quantity,
		UOM:             evaluated.UOM,
		ItemDescription: evaluated.ItemDescription,
		PendingQuantity: evaluated.PendingQuantity,
		Notes:           evaluated.Notes,
	}

	result, err := json.Marshal(detail)
	if err != nil {
		return fmt.Sprintf(`{"error": "Failed to encode order: %v"}`, err)
	}

	return string(result)
}

// isJSONArray returns true if the string starts with '['.
func isJSONArray(s string) bool {
	trimmed := strings.TrimSpace(s)
	return len(trimmed) > 0 && trimmed[0] == '['
}

// --- Claude API types ---

type apiRequest struct {
	Model     string       `json:"model"`
	MaxTokens int          `json:"max_tokens"`
	System    string       `json:"system,omitempty"`
	Messages  []apiMessage `json:"messages"`
	Tools     []apiTool    `json:"tools,omitempty"`
}

type apiMessage struct {
	Role    string            `json:"role"`
	Content []apiContentBlock `json:"content"`
}

type apiContentBlock struct {
	// Common fields
	Type string `json:"type"`

	// For text blocks
	Text string `json:"text,omitempty"`

	// For tool_use blocks
	ID    string          `json:"id,omitempty"`
	Name  string          `json:"name,omitempty"`
	Input json.RawMessage `json:"input,omitempty"`

	// For tool_result blocks
	ToolUseID string `json:"tool_use_id,omitempty"`
	Content   string `json:"content,omitempty"`
}

type apiToolUse struct {
	ID    string
	Name  string
	Input json.RawMessage
}

type apiResponse struct {
	ID         string            `json:"id"`
	Type       string            `json:"type"`
	Role       string            `json:"role"`
	Content    []apiContentBlock `json:"content"`
	Model      string            `json:"model"`
	StopReason string            `json:"stop_reason"`
}

type apiErrorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

type apiTool struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"input_schema"`
}

// toolDefinitions returns the tool specifications for the Claude API.
func toolDefinitions() []apiTool {
	return []apiTool{
		{
			Name: "search_orders",
			Description: "Search the tracked purchase orders. Returns " +
				"matching orders with their urgency tier and age.",
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"query": {
						"type": "string",
						"description": "Free text matched against vendor, PO number, and item code"
					},
					"status": {
						"type": "string",
						"enum": ["Draft", "Pending", "Approved", "Shipped", "Delivered", "Overdue", "Cancelled"],
						"description": "Filter by effective order status"
					},
					"urgency": {
						"type": "string",
						"description": "Filter by urgency tier label, e.g. \"Double Action\" or \"Overdue\""
					},
					"item_code": {
						"type": "string",
						"description": "Filter by exact item code"
					}
				}
			}`),
		},
		{
			Name:        "get_order_detail",
			Description: "Get full details for a specific purchase order by its ID.",
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"order_id": {
						"type": "string",
						"description": "The unique order ID"
					}
				},
				"required": ["order_id"]
			}`),
		},
	}
}
