// Licensed to the Apache Software Foundation (ASF) under one
// or more contributor license agreements.  See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership.  The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License.  You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

/*
Package polars defines the logical type system of a chunked columnar engine
built on Apache Arrow arrays.

Every column carries a logical DataType layered over a physical one. Physical
types map one to one onto Arrow types and describe how the values are laid out
in memory; logical types add parameters such as a time unit and zone, a
decimal precision and scale or a category dictionary. The set of logical types
is closed: DataType cannot be implemented outside this package and code that
dispatches on types switches exhaustively on Type.

The sub-packages provide the pieces that operate on those types:

  - series: reference counted, chunked columns
  - compute: the cast engine (Cast, CastUnchecked, CanCast)
  - categories: open and frozen string dictionaries backing Categorical and
    Enum columns
  - timezone: validation of timezone identifiers for Datetime columns
*/
package polars
