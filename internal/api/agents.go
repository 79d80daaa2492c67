package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"adam-dashboard/internal/agents"
	"adam-dashboard/internal/domain"
	"adam-dashboard/internal/reporting"
	"adam-dashboard/internal/wallet"
)

const maxBodyBytes = 1 << 20

func decodeBody(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return badRequest("invalid JSON body: %v", err)
	}
	return nil
}

// VerifyRequest is the body of POST /api/wallet/verify.
type VerifyRequest struct {
	Chain   string `json:"chain"`
	Address string `json:"address"`
}

// VerifyResponse reports whether an address is well formed for its chain.
type VerifyResponse struct {
	Valid    bool   `json:"valid"`
	Address  string `json:"address,omitempty"`
	Error    string `json:"error,omitempty"`
	MinFund  string `json:"minimumFunding,omitempty"`
	Currency string `json:"currency,omitempty"`
}

// POST /api/wallet/verify: address format check.
func (s *Server) handleWalletVerify(w http.ResponseWriter, r *http.Request) {
	var req VerifyRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	chain := domain.ParseChain(req.Chain)
	if err := wallet.ValidateAddress(chain, req.Address); err != nil {
		s.writeJSON(w, VerifyResponse{Valid: false, Error: err.Error()})
		return
	}
	resp := VerifyResponse{Valid: true, Address: req.Address, Currency: chain.NativeSymbol()}
	if chain.IsEVM() {
		resp.Address = wallet.ChecksumAddress(req.Address)
	}
	if m, ok := agents.MinimumFunding(chain); ok {
		resp.MinFund = m.String()
	}
	s.writeJSON(w, resp)
}

// GET /api/agents: all agents.
func (s *Server) handleListAgents(w http.ResponseWriter, r *http.Request) {
	list, err := s.deps.Agents.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if list == nil {
		list = []*domain.Agent{}
	}
	s.writeJSON(w, list)
}

// POST /api/agents: create an agent from a wizard draft.
func (s *Server) handleCreateAgent(w http.ResponseWriter, r *http.Request) {
	var d agents.Draft
	if err := decodeBody(r, &d); err != nil {
		s.writeError(w, r, err)
		return
	}
	a, err := s.deps.Agents.Create(r.Context(), d)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if s.deps.OnAgentCreated != nil {
		s.deps.OnAgentCreated(a)
	}
	s.writeJSONStatus(w, http.StatusCreated, a)
}

// GET /api/agents/{id}: one agent.
func (s *Server) handleGetAgent(w http.ResponseWriter, r *http.Request) {
	a, err := s.deps.Agents.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, a)
}

// StatusRequest is the body of POST /api/agents/{id}/status.
type StatusRequest struct {
	Status domain.AgentStatus `json:"status"`
}

// POST /api/agents/{id}/status: lifecycle transition.
func (s *Server) handleAgentStatus(w http.ResponseWriter, r *http.Request) {
	var req StatusRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	a, err := s.deps.Agents.Transition(r.Context(), r.PathValue("id"), req.Status)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, a)
}

// POST /api/agents/{id}/funding/check: single balance poll.
func (s *Server) handleFundingCheck(w http.ResponseWriter, r *http.Request) {
	f, err := s.deps.Agents.CheckFunding(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, f)
}

// GET /api/agents/{id}/trades: fills for one agent.
func (s *Server) handleListTrades(w http.ResponseWriter, r *http.Request) {
	trades, err := s.deps.Agents.Trades(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if trades == nil {
		trades = []*domain.Trade{}
	}
	s.writeJSON(w, trades)
}

// POST /api/agents/{id}/trades: record a fill.
func (s *Server) handleRecordTrade(w http.ResponseWriter, r *http.Request) {
	var in agents.TradeInput
	if err := decodeBody(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	t, err := s.deps.Agents.RecordTrade(r.Context(), r.PathValue("id"), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSONStatus(w, http.StatusCreated, t)
}

// GET /api/agents/{id}/trades.csv: fills export.
func (s *Server) handleTradesCSV(w http.ResponseWriter, r *http.Request) {
	trades, err := s.deps.Agents.Trades(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := reporting.WriteTradesCSV(&buf, trades); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Write(buf.Bytes())
}
