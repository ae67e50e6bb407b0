package commerce

// Fixed GraphQL documents for the Storefront API. The field sets are part
// of the request contract with the backend and match what the response
// types in types.go decode.

const productFragment = `
fragment ProductFragment on Product {
  id
  handle
  title
  description
  descriptionHtml
  productType
  tags
  featuredImage {
    id
    url
    altText
    width
    height
  }
  priceRange {
    minVariantPrice {
      amount
      currencyCode
    }
    maxVariantPrice {
      amount
      currencyCode
    }
  }
  variants(first: 100) {
    edges {
      node {
        id
        title
        availableForSale
        price {
          amount
          currencyCode
        }
        compareAtPrice {
          amount
          currencyCode
        }
        selectedOptions {
          name
          value
        }
        image {
          id
          url
          altText
          width
          height
        }
      }
    }
  }
}
`

const cartFragment = `
fragment CartFragment on Cart {
  id
  checkoutUrl
  totalQuantity
  cost {
    subtotalAmount {
      amount
      currencyCode
    }
    totalAmount {
      amount
      currencyCode
    }
    totalTaxAmount {
      amount
      currencyCode
    }
  }
  lines(first: 100) {
    edges {
      node {
        id
        quantity
        attributes {
          key
          value
        }
        cost {
          totalAmount {
            amount
            currencyCode
          }
        }
        merchandise {
          ... on ProductVariant {
            id
            title
            product {
              id
              title
              handle
              featuredImage {
                id
                url
                altText
                width
                height
              }
            }
          }
        }
      }
    }
  }
}
`

const queryProducts = productFragment + `
query GetProducts($first: Int!, $after: String, $query: String) {
  products(first: $first, after: $after, query: $query) {
    pageInfo {
      hasNextPage
      endCursor
    }
    edges {
      node {
        ...ProductFragment
      }
    }
  }
}
`

const queryProductByHandle = productFragment + `
query GetProductByHandle($handle: String!) {
  productByHandle(handle: $handle) {
    ...ProductFragment
    metafields(identifiers: [
      { namespace: "custom", key: "hose_types" },
      { namespace: "custom", key: "diameters" },
      { namespace: "custom", key: "fitting_options" },
      { namespace: "custom", key: "compatibility_rules" },
      { namespace: "custom", key: "pricing_rules" }
    ]) {
      key
      value
      type
      namespace
    }
  }
}
`

const queryCollectionByHandle = productFragment + `
query GetCollectionByHandle($handle: String!, $first: Int!) {
  collectionByHandle(handle: $handle) {
    id
    handle
    title
    description
    image {
      id
      url
      altText
      width
      height
    }
    products(first: $first) {
      edges {
        node {
          ...ProductFragment
        }
      }
    }
  }
}
`

const mutationCartCreate = cartFragment + `
mutation CreateCart($lines: [CartLineInput!]!) {
  cartCreate(input: { lines: $lines }) {
    cart {
      ...CartFragment
    }
    userErrors {
      field
      message
    }
  }
}
`

const mutationCartLinesAdd = cartFragment + `
mutation AddToCart($cartId: ID!, $lines: [CartLineInput!]!) {
  cartLinesAdd(cartId: $cartId, lines: $lines) {
    cart {
      ...CartFragment
    }
    userErrors {
      field
      message
    }
  }
}
`

const mutationCartLinesUpdate = cartFragment + `
mutation UpdateCartLines($cartId: ID!, $lines: [CartLineUpdateInput!]!) {
  cartLinesUpdate(cartId: $cartId, lines: $lines) {
    cart {
      ...CartFragment
    }
    userErrors {
      field
      message
    }
  }
}
`

const mutationCartLinesRemove = cartFragment + `
mutation RemoveFromCart($cartId: ID!, $lineIds: [ID!]!) {
  cartLinesRemove(cartId: $cartId, lineIds: $lineIds) {
    cart {
      ...CartFragment
    }
    userErrors {
      field
      message
    }
  }
}
`

const queryCart = cartFragment + `
query GetCart($cartId: ID!) {
  cart(id: $cartId) {
    ...CartFragment
  }
}
`
