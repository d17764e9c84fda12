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

// Package problem builds the problem description returned to HTTP clients
// when an operation fails.
//
// A Descriptor follows the RFC 9457 member names (type, title, status,
// detail, instance) and adds two extensions: traceId and errors. Build is a
// pure function of its Input and a status policy; it never fails and always
// produces a well-formed Descriptor, falling back to protocol defaults when
// the policy has no rule for the reason.
package problem
