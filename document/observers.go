// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: document/observers.go
// Summary: Observer fan-out shared by the document stores.

package document

type observers struct {
	list []Observer
}

func (o *observers) subscribe(obs Observer) {
	if obs == nil {
		return
	}
	for _, existing := range o.list {
		if existing == obs {
			return
		}
	}
	o.list = append(o.list, obs)
}

func (o *observers) unsubscribe(obs Observer) {
	for i, existing := range o.list {
		if existing == obs {
			o.list = append(o.list[:i:i], o.list[i+1:]...)
			return
		}
	}
}

func (o *observers) begin() {
	for _, obs := range o.list {
		obs.BeginEdit()
	}
}

func (o *observers) end(e Edit) {
	for _, obs := range o.list {
		obs.EndEdit(e)
	}
}
