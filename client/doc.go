// Package client provides the core implementation of the JSON request
// wrapper.
//
// # Building a Client
//
// Use [Build] to create a [Client] with functional options:
//
//	c, err := client.Build(
//		client.WithTimeout(10 * time.Second),
//		client.WithUserAgent("myapp/1.0"),
//		client.WithBaseOptions(client.Options{
//			Headers: map[string]string{"Authorization": "Bearer " + token},
//		}),
//	)
//
// # Making Requests
//
// GET and HEAD encode their payload into the query string, every other
// method sends it as a JSON body:
//
//	res, err := c.Get(ctx, "https://api.example.com/planets",
//		client.Params{{Key: "max", Value: 3}})
//	res, err = c.Post(ctx, "https://api.example.com/planets", planet)
//
// # Results
//
// A [Result] is one of three kinds. [KindJSON] carries the parsed body
// in Data (and [Result.Decode] unmarshals it into a struct). [KindFallback]
// carries a [Fallback] describing a non-JSON, unparsable or unsuccessful
// response. [KindHeaders] carries the headers of a HEAD response.
//
//	switch res.Kind {
//	case client.KindJSON:
//		var planets []Planet
//		err = res.Decode(&planets)
//	case client.KindFallback:
//		fmt.Println(res.Fallback.Status, res.Fallback.BodyText)
//	}
//
// With StrictErrors set, a non-2xx status returns a [*StatusError]
// instead of a fallback.
//
// # Logging
//
// [Client.EnableLogger] installs a [LogFunc] that receives a [LogEvent]
// before each request is dispatched and after each response arrives.
// Query strings are never logged.
//
// # Transports
//
// The default [HTTPTransport] is built on [net/http]. Any other exchange
// can be plugged in with [WithTransport] and a [TransportFunc].
package client
