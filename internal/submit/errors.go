// Copyright (c) 2025-2026 yassine-work / Chatbot-v2 contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package submit

import "errors"

var errNoResponder = errors.New("no responder configured")
