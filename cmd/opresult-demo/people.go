/*
   Copyright 2025 The DIRPX Authors

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package main

import (
	"context"
	"strings"
	"sync"

	"dirpx.dev/opresult"
	"dirpx.dev/opresult/failure"
	"github.com/google/uuid"
)

type person struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Age   int    `json:"age"`
}

type createPerson struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name" binding:"required,max=64"`
	Age   int    `json:"age" binding:"gt=0,lte=150"`
}

// people is an in-memory person store.
type people struct {
	mu      sync.RWMutex
	byID    map[string]person
	byEmail map[string]string
}

func newPeople() *people {
	return &people{byID: map[string]person{}, byEmail: map[string]string{}}
}

func (s *people) create(ctx context.Context, in createPerson) opresult.Result[person] {
	if err := ctx.Err(); err != nil {
		return opresult.Fail[person](err)
	}
	email := strings.ToLower(in.Email)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byEmail[email]; ok {
		return opresult.Fail[person](opresult.E(failure.Conflict, "A person with this email already exists.",
			opresult.WithDetailOption("email", email),
		))
	}
	p := person{ID: uuid.NewString(), Email: email, Name: in.Name, Age: in.Age}
	s.byID[p.ID] = p
	s.byEmail[email] = p.ID
	return opresult.Ok(p)
}

func (s *people) get(id string) opresult.Result[person] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.byID[id]
	if !ok {
		return opresult.Fail[person](opresult.E(failure.NotFound.Qualify("person"), "Person "+id+" does not exist."))
	}
	return opresult.Ok(p)
}

func (s *people) delete(id string) opresult.Result[struct{}] {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.byID[id]
	if !ok {
		return opresult.Fail[struct{}](opresult.E(failure.NotFound.Qualify("person"), "Person "+id+" does not exist."))
	}
	delete(s.byID, id)
	delete(s.byEmail, p.Email)
	return opresult.Ok(struct{}{})
}
