// Copyright (c) 2025-2026 yassine-work / Chatbot-v2 contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/yassine-work/Chatbot-v2/internal/config"
	"github.com/yassine-work/Chatbot-v2/internal/model"
	"github.com/yassine-work/Chatbot-v2/internal/submit"
)

// ResponseMsg carries a settled responder call back to the event loop.
type ResponseMsg struct {
	Result submit.Result
}

// RevealMsg signals that another word of a reply has been revealed.
type RevealMsg struct {
	ID     model.CorrelationID
	Prefix string
}

// ConfigReloadMsg delivers a configuration reloaded from disk.
type ConfigReloadMsg struct {
	Config *config.Config
}

// ConfigErrorMsg reports a configuration file that failed to reload.
type ConfigErrorMsg struct {
	Err error
}
