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

// Package failure defines the classification of why an operation did not
// succeed.
//
// A failure reason is the machine-readable category that the rest of
// opresult uses to pick a transport status, such as "not_found",
// "conflict" or "validation". Reasons are:
//
//   - short and stable;
//   - lowercased;
//   - underscore-separated (not dash-separated);
//   - optionally qualified with up to three dot-separated segments, e.g.
//     "not_found.order" refines "not_found".
//
// The package ships a fixed catalogue of well-known reasons (see reasons.go).
// Hosts may introduce their own reasons at configuration time with Parse or
// MustParse; every reason value flowing through opresult is expected to be in
// canonical form.
package failure
